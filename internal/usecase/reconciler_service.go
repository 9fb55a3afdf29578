package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bardown/lacrosse-tracker/internal/domain/conference"
	"github.com/bardown/lacrosse-tracker/internal/domain/game"
	"github.com/bardown/lacrosse-tracker/internal/domain/player"
	"github.com/bardown/lacrosse-tracker/internal/domain/stats"
	"github.com/bardown/lacrosse-tracker/internal/domain/team"
	"github.com/bardown/lacrosse-tracker/internal/platform/id"
	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
	"github.com/cockroachdb/errors"
)

// conferenceAliases maps lowercased source conference labels to our
// abbreviations. Only known spellings live here; anything else goes through
// the name-match cascade.
var conferenceAliases = map[string]string{
	"acc":          "ACC",
	"big east":     "BIGEAST",
	"big ten":      "B1G",
	"patriot":      "PATRIOT",
	"ivy league":   "IVY",
	"ivy":          "IVY",
	"caa":          "CAA",
	"colonial":     "CAA",
	"maac":         "MAAC",
	"atlantic 10":  "A10",
	"a-10":         "A10",
	"america east": "AE",
	"nec":          "NEC",
	"northeast":    "NEC",
	"southern":     "SOCON",
	"asun":         "ASUN",
	"atlantic sun": "ASUN",
}

// ReconcileResult counts store mutations for one scoreboard batch.
type ReconcileResult struct {
	Created int
	Updated int
	Failed  int
}

// ReconcilerService turns scraped value objects into durable upserts, one
// record at a time, isolating failures per record.
type ReconcilerService struct {
	conferenceRepo conference.Repository
	teamRepo       team.Repository
	playerRepo     player.Repository
	gameRepo       game.Repository
	statsRepo      stats.Repository
	ids            id.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewReconcilerService(
	conferenceRepo conference.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	gameRepo game.Repository,
	statsRepo stats.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *ReconcilerService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &ReconcilerService{
		conferenceRepo: conferenceRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		gameRepo:       gameRepo,
		statsRepo:      statsRepo,
		ids:            ids,
		logger:         logger,
		now:            time.Now,
	}
}

// ReconcileGames matches each scraped game to an existing record or creates
// one. A failure on one record is logged and never aborts the rest of the
// batch; re-running the same batch is idempotent.
func (s *ReconcilerService) ReconcileGames(ctx context.Context, scraped []ScrapedGame) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcilerService.ReconcileGames")
	defer span.End()

	var result ReconcileResult
	for _, item := range scraped {
		created, err := s.reconcileGame(ctx, item)
		if err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "game reconciliation failed",
				"home", item.HomeTeamName,
				"away", item.AwayTeamName,
				"error", errors.Mark(err, ErrReconciliationFailure),
			)
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.InfoContext(ctx, "scoreboard batch reconciled",
		"scraped", len(scraped),
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *ReconcilerService) reconcileGame(ctx context.Context, item ScrapedGame) (created bool, err error) {
	home, err := s.resolveTeam(ctx, scrapedTeamSide{
		name:       item.HomeTeamName,
		fullName:   item.HomeTeamFull,
		shortName:  item.HomeTeamShort,
		externalID: item.HomeTeamExternalID,
		conference: item.HomeConference,
		rank:       item.HomeRank,
		record:     item.HomeRecord,
		logoURL:    item.HomeLogo,
	})
	if err != nil {
		return false, fmt.Errorf("resolve home team %q: %w", item.HomeTeamName, err)
	}
	away, err := s.resolveTeam(ctx, scrapedTeamSide{
		name:       item.AwayTeamName,
		fullName:   item.AwayTeamFull,
		shortName:  item.AwayTeamShort,
		externalID: item.AwayTeamExternalID,
		conference: item.AwayConference,
		rank:       item.AwayRank,
		record:     item.AwayRecord,
		logoURL:    item.AwayLogo,
	})
	if err != nil {
		return false, fmt.Errorf("resolve away team %q: %w", item.AwayTeamName, err)
	}
	if home.ID == away.ID {
		return false, fmt.Errorf("home and away resolved to the same team %q", home.Name)
	}

	existing, found, err := s.findExistingGame(ctx, item, home.ID, away.ID)
	if err != nil {
		return false, err
	}
	if found {
		return false, s.updateGame(ctx, existing, item)
	}
	return true, s.createGame(ctx, item, home.ID, away.ID)
}

func (s *ReconcilerService) findExistingGame(ctx context.Context, item ScrapedGame, homeTeamID, awayTeamID string) (game.Game, bool, error) {
	for _, sourceID := range []string{item.ExternalGameID, item.FallbackGameID} {
		if sourceID == "" {
			continue
		}
		existing, found, err := s.gameRepo.FindByExternalID(ctx, sourceID)
		if err != nil {
			return game.Game{}, false, fmt.Errorf("find game by external id: %w", err)
		}
		if found {
			return existing, true, nil
		}
	}

	if !item.StartTime.IsZero() {
		existing, found, err := s.gameRepo.FindByTeamsOnDay(ctx, homeTeamID, awayTeamID, item.StartTime)
		if err != nil {
			return game.Game{}, false, fmt.Errorf("find game by teams and day: %w", err)
		}
		if found {
			return existing, true, nil
		}
	}

	return game.Game{}, false, nil
}

func (s *ReconcilerService) createGame(ctx context.Context, item ScrapedGame, homeTeamID, awayTeamID string) error {
	gameID, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate game id: %w", err)
	}

	startTime := item.StartTime
	if startTime.IsZero() {
		startTime = s.now()
	}

	row := game.Game{
		ID:              gameID,
		HomeTeamID:      homeTeamID,
		AwayTeamID:      awayTeamID,
		HomeScore:       item.HomeScore,
		AwayScore:       item.AwayScore,
		Status:          game.NormalizeStatus(item.Status),
		Period:          optionalString(item.Period),
		Clock:           optionalString(item.Clock),
		StartTime:       startTime,
		Season:          startTime.Year(),
		ExternalID:      item.ExternalGameID,
		StatBroadcastID: item.FallbackGameID,
	}
	if err := row.Validate(); err != nil {
		return err
	}
	if err := s.gameRepo.Upsert(ctx, row); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (s *ReconcilerService) updateGame(ctx context.Context, existing game.Game, item ScrapedGame) error {
	existing.HomeScore = item.HomeScore
	existing.AwayScore = item.AwayScore
	existing.Status = game.NormalizeStatus(item.Status)
	existing.Period = optionalString(item.Period)
	existing.Clock = optionalString(item.Clock)

	// Backfill source ids that were unknown; never replace a known one.
	if existing.ExternalID == "" && item.ExternalGameID != "" {
		existing.ExternalID = item.ExternalGameID
	}
	if existing.StatBroadcastID == "" && item.FallbackGameID != "" {
		existing.StatBroadcastID = item.FallbackGameID
	}

	if err := s.gameRepo.Upsert(ctx, existing); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

// --- team resolution ---

type scrapedTeamSide struct {
	name       string
	fullName   string
	shortName  string
	externalID string
	conference string
	rank       string
	record     string
	logoURL    string
}

// resolveTeam finds or creates a team. Cascade: external id, exact name on
// either variant, abbreviation, create. Every successful resolution
// refreshes rank and record from the scraped payload.
func (s *ReconcilerService) resolveTeam(ctx context.Context, side scrapedTeamSide) (team.Team, error) {
	if side.externalID != "" {
		existing, found, err := s.teamRepo.FindByExternalID(ctx, side.externalID)
		if err != nil {
			return team.Team{}, fmt.Errorf("find team by external id: %w", err)
		}
		if found {
			return s.refreshTeamMetadata(ctx, existing, side)
		}
	}

	names := make([]string, 0, 2)
	if side.name != "" {
		names = append(names, side.name)
	}
	if side.fullName != "" && side.fullName != side.name {
		names = append(names, side.fullName)
	}

	existing, found, err := s.teamRepo.FindByNames(ctx, names)
	if err != nil {
		return team.Team{}, fmt.Errorf("find team by name: %w", err)
	}
	if !found && side.shortName != "" {
		existing, found, err = s.teamRepo.FindByAbbreviation(ctx, side.shortName)
		if err != nil {
			return team.Team{}, fmt.Errorf("find team by abbreviation: %w", err)
		}
	}
	if found {
		return s.refreshTeamMetadata(ctx, existing, side)
	}

	conf, err := s.resolveConference(ctx, side.conference)
	if err != nil {
		return team.Team{}, err
	}

	teamID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	abbreviation := side.shortName
	if abbreviation == "" {
		abbreviation = defaultAbbreviation(side.name)
	}

	name := side.fullName
	if name == "" {
		name = side.name
	}

	wins, losses := parseRecord(side.record)
	item := team.Team{
		ID:           teamID,
		ConferenceID: conf.ID,
		Name:         name,
		Abbreviation: abbreviation,
		Wins:         wins,
		Losses:       losses,
		Ranking:      parseRank(side.rank),
		ExternalID:   side.externalID,
		LogoURL:      side.logoURL,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}
	if err := s.teamRepo.Upsert(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}

	s.logger.InfoContext(ctx, "created new team",
		"team", item.Name,
		"conference", conf.Abbreviation,
	)
	return item, nil
}

func (s *ReconcilerService) refreshTeamMetadata(ctx context.Context, existing team.Team, side scrapedTeamSide) (team.Team, error) {
	changed := false

	// A team first seen via the fallback source learns its structured-source
	// id the first time the structured source reports it.
	if existing.ExternalID == "" && side.externalID != "" {
		existing.ExternalID = side.externalID
		changed = true
	}

	if rank := parseRank(side.rank); rank != nil {
		if existing.Ranking == nil || *existing.Ranking != *rank {
			existing.Ranking = rank
			changed = true
		}
	}

	if side.record != "" {
		wins, losses := parseRecord(side.record)
		if existing.Wins != wins || existing.Losses != losses {
			existing.Wins = wins
			existing.Losses = losses
			changed = true
		}
	}

	if side.logoURL != "" && existing.LogoURL == "" {
		existing.LogoURL = side.logoURL
		changed = true
	}

	if changed {
		if err := s.teamRepo.Upsert(ctx, existing); err != nil {
			return team.Team{}, fmt.Errorf("refresh team metadata: %w", err)
		}
	}
	return existing, nil
}

// resolveConference maps a scraped conference label to a stored conference:
// alias table, exact name, case-insensitive substring either direction, then
// the first conference in the store as a logged fallback.
func (s *ReconcilerService) resolveConference(ctx context.Context, name string) (conference.Conference, error) {
	if name != "" {
		nameLower := strings.ToLower(strings.TrimSpace(name))

		if abbrev, ok := conferenceAliases[nameLower]; ok {
			found, ok, err := s.conferenceRepo.FindByAbbreviation(ctx, abbrev)
			if err != nil {
				return conference.Conference{}, fmt.Errorf("find conference by abbreviation: %w", err)
			}
			if ok {
				return found, nil
			}
		}

		found, ok, err := s.conferenceRepo.FindByName(ctx, name)
		if err != nil {
			return conference.Conference{}, fmt.Errorf("find conference by name: %w", err)
		}
		if ok {
			return found, nil
		}

		all, err := s.conferenceRepo.ListAll(ctx)
		if err != nil {
			return conference.Conference{}, fmt.Errorf("list conferences: %w", err)
		}
		for _, conf := range all {
			confLower := strings.ToLower(conf.Name)
			if strings.Contains(confLower, nameLower) || strings.Contains(nameLower, confLower) {
				return conf, nil
			}
		}
	}

	fallback, ok, err := s.conferenceRepo.First(ctx)
	if err != nil {
		return conference.Conference{}, fmt.Errorf("load fallback conference: %w", err)
	}
	if !ok {
		return conference.Conference{}, errors.Wrapf(ErrUnresolvableConference, "label=%q", name)
	}

	s.logger.WarnContext(ctx, "unmapped conference label, using fallback",
		"label", name,
		"fallback", fallback.Name,
	)
	return fallback, nil
}

// --- box scores ---

// ReconcileBoxScore upserts quarter scores, team aggregates, and player
// lines for one game. All writes key on compound identities, so replaying
// the same box score leaves the store unchanged.
func (s *ReconcilerService) ReconcileBoxScore(ctx context.Context, box ScrapedBoxScore, gameID, homeTeamID, awayTeamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcilerService.ReconcileBoxScore")
	defer span.End()

	for _, qs := range box.QuarterScores {
		quarterID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate quarter score id: %w", err)
		}
		item := game.QuarterScore{
			ID:        quarterID,
			GameID:    gameID,
			Quarter:   qs.Quarter,
			HomeScore: qs.HomeScore,
			AwayScore: qs.AwayScore,
		}
		if err := s.gameRepo.UpsertQuarterScore(ctx, item); err != nil {
			return fmt.Errorf("upsert quarter %d: %w", qs.Quarter, err)
		}
	}

	if err := s.upsertTeamStats(ctx, box.HomeTeamStats, gameID, homeTeamID, true); err != nil {
		return err
	}
	if err := s.upsertTeamStats(ctx, box.AwayTeamStats, gameID, awayTeamID, false); err != nil {
		return err
	}

	for _, line := range box.PlayerStats {
		teamID := playerLineTeamID(line, box, homeTeamID, awayTeamID)
		if err := s.upsertPlayerStats(ctx, line, gameID, teamID); err != nil {
			s.logger.ErrorContext(ctx, "player stat reconciliation failed",
				"player", line.PlayerName,
				"game_id", gameID,
				"error", errors.Mark(err, ErrReconciliationFailure),
			)
		}
	}

	return nil
}

// playerLineTeamID attributes a player line to a side. A caption-derived
// team name wins when it matches one of the totals rows; caption-less
// markup falls back to the line's positional flag.
func playerLineTeamID(line ScrapedPlayerStats, box ScrapedBoxScore, homeTeamID, awayTeamID string) string {
	if line.Team != "" {
		if strings.EqualFold(line.Team, box.HomeTeamStats.TeamName) {
			return homeTeamID
		}
		if strings.EqualFold(line.Team, box.AwayTeamStats.TeamName) {
			return awayTeamID
		}
	}
	if line.IsHome {
		return homeTeamID
	}
	return awayTeamID
}

func (s *ReconcilerService) upsertTeamStats(ctx context.Context, scraped ScrapedTeamStats, gameID, teamID string, isHome bool) error {
	statsID, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate game stats id: %w", err)
	}

	item := stats.GameStats{
		ID:             statsID,
		GameID:         gameID,
		TeamID:         teamID,
		IsHome:         isHome,
		Goals:          scraped.Goals,
		Assists:        scraped.Assists,
		Shots:          scraped.Shots,
		ShotsOnGoal:    stats.OptionalCount(scraped.ShotsOnGoal),
		Saves:          scraped.Saves,
		GroundBalls:    scraped.GroundBalls,
		FaceoffsWon:    scraped.FaceoffsWon,
		FaceoffsLost:   scraped.FaceoffsLost,
		Turnovers:      scraped.Turnovers,
		Penalties:      scraped.Penalties,
		PenaltyMinutes: stats.OptionalCount(scraped.PenaltyMinutes),
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.statsRepo.UpsertGameStats(ctx, item); err != nil {
		return fmt.Errorf("upsert team stats team_id=%s: %w", teamID, err)
	}
	return nil
}

func (s *ReconcilerService) upsertPlayerStats(ctx context.Context, line ScrapedPlayerStats, gameID, teamID string) error {
	resolved, err := s.resolvePlayer(ctx, line, teamID)
	if err != nil {
		return err
	}

	statsID, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate player stats id: %w", err)
	}

	item := stats.PlayerGameStats{
		ID:              statsID,
		GameID:          gameID,
		PlayerID:        resolved.ID,
		Goals:           line.Goals,
		Assists:         line.Assists,
		Points:          line.Goals + line.Assists,
		Shots:           line.Shots,
		Saves:           stats.OptionalCount(line.Saves),
		GroundBalls:     stats.OptionalCount(line.GroundBalls),
		FaceoffsWon:     stats.OptionalCount(line.FaceoffsWon),
		FaceoffsLost:    stats.OptionalCount(line.FaceoffsLost),
		Turnovers:       stats.OptionalCount(line.Turnovers),
		CausedTurnovers: stats.OptionalCount(line.CausedTurnovers),
		Penalties:       stats.OptionalCount(line.Penalties),
		PenaltyMinutes:  stats.OptionalCount(line.PenaltyMinutes),
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.statsRepo.UpsertPlayerGameStats(ctx, item); err != nil {
		return fmt.Errorf("upsert player stats player_id=%s: %w", resolved.ID, err)
	}
	return nil
}

// resolvePlayer finds a player by (team, last, first) or creates one. A
// jersey number learned later is backfilled onto the existing row.
func (s *ReconcilerService) resolvePlayer(ctx context.Context, line ScrapedPlayerStats, teamID string) (player.Player, error) {
	firstName, lastName := ParsePlayerName(line.PlayerName)

	existing, found, err := s.playerRepo.FindByName(ctx, teamID, lastName, firstName)
	if err != nil {
		return player.Player{}, fmt.Errorf("find player: %w", err)
	}
	if found {
		if existing.Number == nil && line.Number != "" {
			existing.Number = &line.Number
			if err := s.playerRepo.Update(ctx, existing); err != nil {
				return player.Player{}, fmt.Errorf("backfill player number: %w", err)
			}
		}
		return existing, nil
	}

	playerID, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	created := player.Player{
		ID:        playerID,
		TeamID:    teamID,
		FirstName: firstName,
		LastName:  lastName,
		Number:    optionalString(line.Number),
		Position:  line.Position,
	}
	if err := created.Validate(); err != nil {
		return player.Player{}, err
	}
	if err := s.playerRepo.Create(ctx, created); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return created, nil
}

// --- parsing helpers ---

// ParsePlayerName splits "Last, First", "First Last", or a bare token
// (which becomes a last name with an empty first name).
func ParsePlayerName(raw string) (firstName, lastName string) {
	name := strings.TrimSpace(raw)

	if idx := strings.Index(name, ","); idx >= 0 {
		lastName = strings.TrimSpace(name[:idx])
		firstName = strings.TrimSpace(name[idx+1:])
		return firstName, lastName
	}

	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	return "", name
}

// parseRecord parses "(8-3)" into wins and losses, defaulting to 0-0 on
// anything malformed.
func parseRecord(record string) (wins, losses int) {
	cleaned := strings.NewReplacer("(", "", ")", "").Replace(record)
	cleaned = strings.TrimSpace(cleaned)

	idx := strings.Index(cleaned, "-")
	if idx < 0 {
		return 0, 0
	}

	wins, err := strconv.Atoi(strings.TrimSpace(cleaned[:idx]))
	if err != nil {
		return 0, 0
	}
	losses, err = strconv.Atoi(strings.TrimSpace(cleaned[idx+1:]))
	if err != nil {
		return 0, 0
	}
	return wins, losses
}

func parseRank(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	rank, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &rank
}

func defaultAbbreviation(name string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(name))
	if len(cleaned) > 6 {
		cleaned = cleaned[:6]
	}
	return cleaned
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
