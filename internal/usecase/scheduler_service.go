package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bardown/lacrosse-tracker/internal/domain/conference"
	"github.com/bardown/lacrosse-tracker/internal/domain/game"
	"github.com/bardown/lacrosse-tracker/internal/domain/stats"
	"github.com/bardown/lacrosse-tracker/internal/domain/team"
	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

// trackedConference is one Division I conference the fallback source knows.
type trackedConference struct {
	Abbreviation string
	Name         string
}

// d1Conferences is the fixed set of men's Division I lacrosse conferences
// the per-conference passes walk.
var d1Conferences = []trackedConference{
	{Abbreviation: "ACC", Name: "ACC"},
	{Abbreviation: "BIGEAST", Name: "Big East"},
	{Abbreviation: "B1G", Name: "Big Ten"},
	{Abbreviation: "PATRIOT", Name: "Patriot"},
	{Abbreviation: "IVY", Name: "Ivy League"},
	{Abbreviation: "CAA", Name: "CAA"},
	{Abbreviation: "MAAC", Name: "MAAC"},
	{Abbreviation: "AE", Name: "America East"},
	{Abbreviation: "A10", Name: "Atlantic 10"},
	{Abbreviation: "NEC", Name: "NEC"},
	{Abbreviation: "SOCON", Name: "SoCon"},
	{Abbreviation: "ASUN", Name: "ASUN"},
}

const (
	defaultBaseInterval   = 30 * time.Second
	defaultLiveInterval   = 30 * time.Second
	defaultActiveInterval = 5 * time.Minute
	defaultIdleInterval   = 30 * time.Minute

	// Active hours run from noon to midnight local time, the window when
	// college games are actually played.
	activeHourStart = 12
	activeHourEnd   = 24

	defaultBoxScoreWorkers = 4
)

// SchedulerConfig tunes the adaptive polling loop. Zero values take the
// defaults above.
type SchedulerConfig struct {
	BaseInterval    time.Duration
	LiveInterval    time.Duration
	ActiveInterval  time.Duration
	IdleInterval    time.Duration
	BoxScoreWorkers int
	// Location anchors calendar-day and active-hour decisions. Defaults to
	// time.Local.
	Location *time.Location
}

func (c SchedulerConfig) normalize() SchedulerConfig {
	if c.BaseInterval <= 0 {
		c.BaseInterval = defaultBaseInterval
	}
	if c.LiveInterval <= 0 {
		c.LiveInterval = defaultLiveInterval
	}
	if c.ActiveInterval <= 0 {
		c.ActiveInterval = defaultActiveInterval
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = defaultIdleInterval
	}
	if c.BoxScoreWorkers <= 0 {
		c.BoxScoreWorkers = defaultBoxScoreWorkers
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

// SchedulerService drives the whole ingestion pipeline on an adaptive
// cadence: every 30 seconds while any game is live, every 5 minutes during
// active hours, every 30 minutes overnight.
type SchedulerService struct {
	schedule   ScheduleProvider
	fallback   FallbackProvider
	reconciler *ReconcilerService

	gameRepo       game.Repository
	teamRepo       team.Repository
	conferenceRepo conference.Repository
	statsRepo      stats.Repository

	cfg    SchedulerConfig
	logger *logging.Logger
	now    func() time.Time

	ticking atomic.Bool

	mu         sync.Mutex
	lastScrape map[string]time.Time
}

func NewSchedulerService(
	schedule ScheduleProvider,
	fallback FallbackProvider,
	reconciler *ReconcilerService,
	gameRepo game.Repository,
	teamRepo team.Repository,
	conferenceRepo conference.Repository,
	statsRepo stats.Repository,
	cfg SchedulerConfig,
	logger *logging.Logger,
) *SchedulerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SchedulerService{
		schedule:       schedule,
		fallback:       fallback,
		reconciler:     reconciler,
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		conferenceRepo: conferenceRepo,
		statsRepo:      statsRepo,
		cfg:            cfg.normalize(),
		logger:         logger,
		now:            time.Now,
		lastScrape:     make(map[string]time.Time),
	}
}

// Run ticks at the base interval until the context is canceled. Each tick
// decides per target whether enough time has passed for its effective
// interval, so slow cadences ride on the fast ticker.
func (s *SchedulerService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "scheduler starting",
		"base_interval", s.cfg.BaseInterval.String(),
		"live_interval", s.cfg.LiveInterval.String(),
		"active_interval", s.cfg.ActiveInterval.String(),
		"idle_interval", s.cfg.IdleInterval.String(),
	)

	s.Tick(ctx)

	ticker := time.NewTicker(s.cfg.BaseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass. Overlapping calls are collapsed: if a
// previous pass is still running this one returns immediately.
func (s *SchedulerService) Tick(ctx context.Context) {
	if !s.ticking.CompareAndSwap(false, true) {
		s.logger.DebugContext(ctx, "previous tick still running, skipping")
		return
	}
	defer s.ticking.Store(false)

	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Tick")
	defer span.End()

	liveConferences, err := s.detectLiveConferences(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "live game detection failed", "error", err)
		liveConferences = nil
	}

	if s.due("all", s.effectiveInterval(len(liveConferences) > 0)) {
		s.runSchedulePass(ctx)
	}

	s.runConferencePasses(ctx, liveConferences)
}

// effectiveInterval picks the cadence: live beats active beats idle.
func (s *SchedulerService) effectiveInterval(anyLive bool) time.Duration {
	if anyLive {
		return s.cfg.LiveInterval
	}
	if s.inActiveHours() {
		return s.cfg.ActiveInterval
	}
	return s.cfg.IdleInterval
}

func (s *SchedulerService) inActiveHours() bool {
	hour := s.now().In(s.cfg.Location).Hour()
	return hour >= activeHourStart && hour < activeHourEnd
}

// due reports whether the given target's interval has elapsed and, if so,
// records the pass as started.
func (s *SchedulerService) due(key string, interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, seen := s.lastScrape[key]
	if seen && s.now().Sub(last) < interval {
		return false
	}
	s.lastScrape[key] = s.now()
	return true
}

// detectLiveConferences maps live games back to the conference abbreviations
// that need the fast cadence.
func (s *SchedulerService) detectLiveConferences(ctx context.Context) (map[string]bool, error) {
	liveGames, err := s.gameRepo.ListLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live games: %w", err)
	}
	if len(liveGames) == 0 {
		return nil, nil
	}

	live := make(map[string]bool)
	for _, item := range liveGames {
		for _, teamID := range []string{item.HomeTeamID, item.AwayTeamID} {
			teamRow, found, err := s.teamRepo.GetByID(ctx, teamID)
			if err != nil || !found {
				continue
			}
			confRow, found, err := s.conferenceRepo.GetByID(ctx, teamRow.ConferenceID)
			if err != nil || !found {
				continue
			}
			live[confRow.Abbreviation] = true
		}
	}
	return live, nil
}

// runSchedulePass fetches the full structured-source scoreboard for today
// and reconciles it. Failures are logged and absorbed; the next tick retries.
func (s *SchedulerService) runSchedulePass(ctx context.Context) {
	today := s.now().In(s.cfg.Location)

	scraped, err := s.schedule.FetchScoreboard(ctx, today)
	if err != nil {
		s.logger.WarnContext(ctx, "schedule source fetch failed", "error", err)
	}
	if len(scraped) == 0 {
		return
	}

	if _, err := s.reconciler.ReconcileGames(ctx, scraped); err != nil {
		s.logger.ErrorContext(ctx, "schedule pass reconciliation failed", "error", err)
	}
}

// runConferencePasses fans each due conference out to the worker pool. A
// conference with a live game uses the live cadence regardless of the hour.
func (s *SchedulerService) runConferencePasses(ctx context.Context, liveConferences map[string]bool) {
	due := make([]trackedConference, 0, len(d1Conferences))
	for _, conf := range d1Conferences {
		interval := s.effectiveInterval(liveConferences[conf.Abbreviation])
		if s.due(conf.Abbreviation, interval) {
			due = append(due, conf)
		}
	}
	if len(due) == 0 {
		return
	}

	pool, err := ants.NewPool(s.cfg.BoxScoreWorkers)
	if err != nil {
		s.logger.ErrorContext(ctx, "create worker pool", "error", err)
		return
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, conf := range due {
		conf := conf
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			s.runConferencePass(ctx, conf)
		}); err != nil {
			workers.Done()
			s.logger.ErrorContext(ctx, "submit conference pass",
				"conference", conf.Abbreviation,
				"error", err,
			)
		}
	}
	workers.Wait()
}

// runConferencePass supplements the scoreboard from the fallback source and
// scrapes box scores for this conference's games that still need them.
func (s *SchedulerService) runConferencePass(ctx context.Context, conf trackedConference) {
	scraped, err := s.fallback.ScrapeScoreboard(ctx, conf.Abbreviation)
	if err != nil {
		s.logger.WarnContext(ctx, "fallback scoreboard scrape failed",
			"conference", conf.Abbreviation,
			"error", err,
		)
	}
	if len(scraped) > 0 {
		if _, err := s.reconciler.ReconcileGames(ctx, scraped); err != nil {
			s.logger.ErrorContext(ctx, "fallback scoreboard reconciliation failed",
				"conference", conf.Abbreviation,
				"error", err,
			)
		}
	}

	s.scrapeBoxScores(ctx, conf)
}

func (s *SchedulerService) scrapeBoxScores(ctx context.Context, conf trackedConference) {
	candidates, err := s.gameRepo.ListNeedingBoxScores(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list box score candidates", "error", err)
		return
	}

	for _, item := range candidates {
		if !s.gameInConference(ctx, item, conf.Abbreviation) {
			continue
		}

		// Final games whose player lines already landed never need another
		// scrape.
		if item.Status == game.StatusFinal {
			done, err := s.statsRepo.HasPlayerStats(ctx, item.ID)
			if err == nil && done {
				continue
			}
		}

		box, ok, err := s.fallback.ScrapeBoxScore(ctx, item.StatBroadcastID, conf.Abbreviation)
		if err != nil {
			s.logger.WarnContext(ctx, "box score scrape failed",
				"game_id", item.ID,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		if err := s.reconciler.ReconcileBoxScore(ctx, box, item.ID, item.HomeTeamID, item.AwayTeamID); err != nil {
			s.logger.ErrorContext(ctx, "box score reconciliation failed",
				"game_id", item.ID,
				"error", err,
			)
		}
	}
}

func (s *SchedulerService) gameInConference(ctx context.Context, item game.Game, abbreviation string) bool {
	for _, teamID := range []string{item.HomeTeamID, item.AwayTeamID} {
		teamRow, found, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil || !found {
			continue
		}
		confRow, found, err := s.conferenceRepo.GetByID(ctx, teamRow.ConferenceID)
		if err != nil || !found {
			continue
		}
		if confRow.Abbreviation == abbreviation {
			return true
		}
	}
	return false
}
