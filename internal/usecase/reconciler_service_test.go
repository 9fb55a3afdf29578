package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bardown/lacrosse-tracker/internal/domain/conference"
	"github.com/bardown/lacrosse-tracker/internal/domain/team"
	"github.com/bardown/lacrosse-tracker/internal/infrastructure/repository/memory"
	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
)

// sequenceGenerator hands out deterministic ids for assertions.
type sequenceGenerator struct {
	n int
}

func (g *sequenceGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type reconcilerFixture struct {
	service    *ReconcilerService
	conference *memory.ConferenceRepository
	teams      *memory.TeamRepository
	players    *memory.PlayerRepository
	games      *memory.GameRepository
	stats      *memory.StatsRepository
}

func newReconcilerFixture(conferences []conference.Conference, teams []team.Team) reconcilerFixture {
	conferenceRepo := memory.NewConferenceRepository(conferences)
	teamRepo := memory.NewTeamRepository(teams)
	playerRepo := memory.NewPlayerRepository(nil)
	gameRepo := memory.NewGameRepository(nil, time.UTC)
	statsRepo := memory.NewStatsRepository()

	service := NewReconcilerService(
		conferenceRepo, teamRepo, playerRepo, gameRepo, statsRepo,
		&sequenceGenerator{}, logging.NewNop(),
	)
	return reconcilerFixture{
		service:    service,
		conference: conferenceRepo,
		teams:      teamRepo,
		players:    playerRepo,
		games:      gameRepo,
		stats:      statsRepo,
	}
}

func scrapedFixtureGame() ScrapedGame {
	return ScrapedGame{
		HomeTeamName:       "Duke",
		AwayTeamName:       "Syracuse",
		HomeScore:          8,
		AwayScore:          6,
		Status:             "live",
		Period:             "3rd",
		Clock:              "10:02",
		StartTime:          time.Date(2026, 2, 22, 18, 0, 0, 0, time.UTC),
		ExternalGameID:     "101",
		HomeTeamExternalID: "duke",
		AwayTeamExternalID: "syracuse",
		HomeConference:     "acc",
		AwayConference:     "acc",
		HomeTeamShort:      "DUKE",
		AwayTeamShort:      "CUSE",
		HomeRank:           "2",
		HomeRecord:         "(8-3)",
		HomeLogo:           "https://example.com/duke.svg",
		AwayLogo:           "https://example.com/syracuse.svg",
	}
}

func TestReconcileGames_CreateThenUpdate(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(memory.SeedConferences(), nil)
	ctx := context.Background()

	first, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{scrapedFixtureGame()})
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if first.Created != 1 || first.Updated != 0 || first.Failed != 0 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	updated := scrapedFixtureGame()
	updated.HomeScore = 13
	updated.AwayScore = 10
	updated.Status = "final"
	updated.Period = ""
	updated.Clock = ""

	second, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{updated})
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if second.Created != 0 || second.Updated != 1 || second.Failed != 0 {
		t.Fatalf("unexpected second result: %+v", second)
	}

	stored, found, err := fixture.games.FindByExternalID(ctx, "101")
	if err != nil || !found {
		t.Fatalf("stored game not found: found=%v err=%v", found, err)
	}
	if stored.HomeScore != 13 || stored.AwayScore != 10 || stored.Status != "final" {
		t.Fatalf("update not applied: %+v", stored)
	}
	if stored.Period != nil || stored.Clock != nil {
		t.Fatalf("period and clock should clear when the source omits them: %+v", stored)
	}
	if stored.Season != 2026 {
		t.Fatalf("season should follow the start time, got %d", stored.Season)
	}
}

func TestReconcileGames_MatchesByTeamsOnDayAndBackfillsIDs(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(memory.SeedConferences(), nil)
	ctx := context.Background()

	// Fallback source first: no structured id, only the scraped one.
	fromFallback := scrapedFixtureGame()
	fromFallback.ExternalGameID = ""
	fromFallback.HomeTeamExternalID = ""
	fromFallback.AwayTeamExternalID = ""
	fromFallback.FallbackGameID = "sb-55"

	if _, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{fromFallback}); err != nil {
		t.Fatalf("fallback reconcile: %v", err)
	}

	// Structured source later the same day: no fallback id, so the match
	// has to land on teams plus calendar day.
	fromStructured := scrapedFixtureGame()
	fromStructured.StartTime = fromFallback.StartTime.Add(2 * time.Hour)

	result, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{fromStructured})
	if err != nil {
		t.Fatalf("structured reconcile: %v", err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("expected the same game to update, got %+v", result)
	}

	stored, found, err := fixture.games.FindByExternalID(ctx, "sb-55")
	if err != nil || !found {
		t.Fatalf("game lost its fallback id: found=%v err=%v", found, err)
	}
	if stored.ExternalID != "101" {
		t.Fatalf("structured id should backfill, got %q", stored.ExternalID)
	}
	if stored.StatBroadcastID != "sb-55" {
		t.Fatalf("fallback id should survive, got %q", stored.StatBroadcastID)
	}
}

func TestReconcileGames_RefreshesTeamMetadataWithoutDuplicates(t *testing.T) {
	t.Parallel()

	rank := 5
	seeded := team.Team{
		ID:           "team-duke",
		ConferenceID: "conf-acc",
		Name:         "Duke",
		Abbreviation: "DUKE",
		Wins:         7,
		Losses:       3,
		Ranking:      &rank,
		LogoURL:      "https://example.com/original.svg",
	}
	fixture := newReconcilerFixture(memory.SeedConferences(), []team.Team{seeded})
	ctx := context.Background()

	if _, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{scrapedFixtureGame()}); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	stored, found, err := fixture.teams.FindByAbbreviation(ctx, "DUKE")
	if err != nil || !found {
		t.Fatalf("seeded team missing: found=%v err=%v", found, err)
	}
	if stored.ID != "team-duke" {
		t.Fatalf("expected the seeded team to be reused, got %q", stored.ID)
	}
	if stored.Ranking == nil || *stored.Ranking != 2 {
		t.Fatalf("rank should refresh to 2, got %v", stored.Ranking)
	}
	if stored.Wins != 8 || stored.Losses != 3 {
		t.Fatalf("record should refresh to 8-3, got %d-%d", stored.Wins, stored.Losses)
	}
	if stored.ExternalID != "duke" {
		t.Fatalf("external id should backfill, got %q", stored.ExternalID)
	}
	if stored.LogoURL != "https://example.com/original.svg" {
		t.Fatalf("an existing logo must not be overwritten, got %q", stored.LogoURL)
	}
}

func TestReconcileGames_UnknownConferenceFallsBackToFirst(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(memory.SeedConferences(), nil)
	ctx := context.Background()

	item := scrapedFixtureGame()
	item.HomeConference = "mystery league"
	item.AwayConference = "mystery league"

	result, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{item})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.Created != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, found, err := fixture.teams.FindByAbbreviation(ctx, "DUKE")
	if err != nil || !found {
		t.Fatalf("team missing: found=%v err=%v", found, err)
	}
	first, ok, err := fixture.conference.First(ctx)
	if err != nil || !ok {
		t.Fatalf("no fallback conference: %v", err)
	}
	if stored.ConferenceID != first.ID {
		t.Fatalf("expected fallback conference %q, got %q", first.ID, stored.ConferenceID)
	}
}

func TestReconcileGames_EmptyConferenceStoreFailsRecord(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(nil, nil)
	ctx := context.Background()

	result, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{scrapedFixtureGame()})
	if err != nil {
		t.Fatalf("batch must not abort: %v", err)
	}
	if result.Failed != 1 || result.Created != 0 {
		t.Fatalf("expected one failed record, got %+v", result)
	}
}

func TestReconcileBoxScore(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(memory.SeedConferences(), nil)
	ctx := context.Background()

	if _, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{scrapedFixtureGame()}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	stored, _, err := fixture.games.FindByExternalID(ctx, "101")
	if err != nil {
		t.Fatalf("load game: %v", err)
	}

	box := ScrapedBoxScore{
		QuarterScores: []ScrapedQuarter{
			{Quarter: 1, HomeScore: 2, AwayScore: 3},
			{Quarter: 2, HomeScore: 5, AwayScore: 2},
		},
		HomeTeamStats: ScrapedTeamStats{
			TeamName: "Duke", Goals: 13, Assists: 8, Shots: 41, ShotsOnGoal: 24,
			GroundBalls: 33, Turnovers: 12, Saves: 11, FaceoffsWon: 15, FaceoffsLost: 12,
		},
		AwayTeamStats: ScrapedTeamStats{
			TeamName: "Syracuse", Goals: 10, Assists: 6, Shots: 38,
			GroundBalls: 30, Turnovers: 14, Saves: 9, FaceoffsWon: 12, FaceoffsLost: 15,
		},
		PlayerStats: []ScrapedPlayerStats{
			{PlayerName: "Miller, Chris", Number: "22", Team: "Duke", Goals: 3, Assists: 2, Shots: 7},
			{PlayerName: "Smith, John", Team: "Syracuse", Goals: 1, Shots: 4, Saves: 0},
		},
	}

	if err := fixture.service.ReconcileBoxScore(ctx, box, stored.ID, stored.HomeTeamID, stored.AwayTeamID); err != nil {
		t.Fatalf("reconcile box score: %v", err)
	}
	// Replay to prove compound keys keep the store stable.
	if err := fixture.service.ReconcileBoxScore(ctx, box, stored.ID, stored.HomeTeamID, stored.AwayTeamID); err != nil {
		t.Fatalf("replay box score: %v", err)
	}

	quarters := fixture.games.QuarterScores(stored.ID)
	if len(quarters) != 2 {
		t.Fatalf("expected 2 quarter rows after replay, got %d", len(quarters))
	}

	homeStats, ok := fixture.stats.TeamStats(stored.ID, stored.HomeTeamID)
	if !ok {
		t.Fatal("home team stats missing")
	}
	if !homeStats.IsHome || homeStats.Goals != 13 {
		t.Fatalf("unexpected home stats: %+v", homeStats)
	}
	if homeStats.ShotsOnGoal == nil || *homeStats.ShotsOnGoal != 24 {
		t.Fatalf("unexpected home shots on goal: %v", homeStats.ShotsOnGoal)
	}

	awayStats, ok := fixture.stats.TeamStats(stored.ID, stored.AwayTeamID)
	if !ok {
		t.Fatal("away team stats missing")
	}
	if awayStats.IsHome {
		t.Fatal("away stats flagged as home")
	}
	if awayStats.ShotsOnGoal != nil {
		t.Fatalf("an unreported counter should store nil, got %v", awayStats.ShotsOnGoal)
	}

	lines := fixture.stats.PlayerStatsForGame(stored.ID)
	if len(lines) != 2 {
		t.Fatalf("expected 2 player lines after replay, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Goals == 3 && line.Points != 5 {
			t.Fatalf("points should be goals plus assists, got %+v", line)
		}
		if line.Goals == 1 && line.Saves != nil {
			t.Fatalf("zero saves should store nil, got %v", line.Saves)
		}
	}
}

func TestReconcileBoxScore_CaptionlessLinesSplitByTableSide(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(memory.SeedConferences(), nil)
	ctx := context.Background()

	if _, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{scrapedFixtureGame()}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	stored, _, err := fixture.games.FindByExternalID(ctx, "101")
	if err != nil {
		t.Fatalf("load game: %v", err)
	}

	// Caption-less pages leave Team empty; only the table side is known.
	box := ScrapedBoxScore{
		PlayerStats: []ScrapedPlayerStats{
			{PlayerName: "Carter, Will", Goals: 2},
			{PlayerName: "Miller, Chris", Goals: 3, IsHome: true},
		},
	}
	if err := fixture.service.ReconcileBoxScore(ctx, box, stored.ID, stored.HomeTeamID, stored.AwayTeamID); err != nil {
		t.Fatalf("reconcile box score: %v", err)
	}

	if _, found, err := fixture.players.FindByName(ctx, stored.AwayTeamID, "Carter", "Will"); err != nil || !found {
		t.Fatalf("first-table line should land on the away roster: found=%v err=%v", found, err)
	}
	if _, found, err := fixture.players.FindByName(ctx, stored.HomeTeamID, "Miller", "Chris"); err != nil || !found {
		t.Fatalf("second-table line should land on the home roster: found=%v err=%v", found, err)
	}
}

func TestReconcileBoxScore_BackfillsPlayerNumber(t *testing.T) {
	t.Parallel()

	fixture := newReconcilerFixture(memory.SeedConferences(), nil)
	ctx := context.Background()

	if _, err := fixture.service.ReconcileGames(ctx, []ScrapedGame{scrapedFixtureGame()}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	stored, _, err := fixture.games.FindByExternalID(ctx, "101")
	if err != nil {
		t.Fatalf("load game: %v", err)
	}

	box := ScrapedBoxScore{
		HomeTeamStats: ScrapedTeamStats{TeamName: "Duke"},
		AwayTeamStats: ScrapedTeamStats{TeamName: "Syracuse"},
		PlayerStats: []ScrapedPlayerStats{
			{PlayerName: "Miller, Chris", Team: "Duke", Goals: 1},
		},
	}
	if err := fixture.service.ReconcileBoxScore(ctx, box, stored.ID, stored.HomeTeamID, stored.AwayTeamID); err != nil {
		t.Fatalf("first box score: %v", err)
	}

	box.PlayerStats[0].Number = "22"
	if err := fixture.service.ReconcileBoxScore(ctx, box, stored.ID, stored.HomeTeamID, stored.AwayTeamID); err != nil {
		t.Fatalf("second box score: %v", err)
	}

	lines := fixture.stats.PlayerStatsForGame(stored.ID)
	if len(lines) != 1 {
		t.Fatalf("the jersey number must not fork the player, got %d lines", len(lines))
	}
}

func TestParsePlayerName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw       string
		wantFirst string
		wantLast  string
	}{
		{"Smith, John", "John", "Smith"},
		{"John Smith", "John", "Smith"},
		{"Van Der Berg, Chris", "Chris", "Van Der Berg"},
		{"Smith", "", "Smith"},
		{"  Jones ,  Amy ", "Amy", "Jones"},
	}

	for _, tc := range cases {
		first, last := ParsePlayerName(tc.raw)
		if first != tc.wantFirst || last != tc.wantLast {
			t.Errorf("ParsePlayerName(%q) = (%q, %q), want (%q, %q)",
				tc.raw, first, last, tc.wantFirst, tc.wantLast)
		}
	}
}

func TestParseRecord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw        string
		wantWins   int
		wantLosses int
	}{
		{"(8-3)", 8, 3},
		{"12-0", 12, 0},
		{"( 4 - 7 )", 4, 7},
		{"", 0, 0},
		{"TBD", 0, 0},
		{"(8)", 0, 0},
	}

	for _, tc := range cases {
		wins, losses := parseRecord(tc.raw)
		if wins != tc.wantWins || losses != tc.wantLosses {
			t.Errorf("parseRecord(%q) = (%d, %d), want (%d, %d)",
				tc.raw, wins, losses, tc.wantWins, tc.wantLosses)
		}
	}
}
