package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/bardown/lacrosse-tracker/external/ncaa"
	"github.com/bardown/lacrosse-tracker/external/statbroadcast"
	"github.com/bardown/lacrosse-tracker/internal/config"
	"github.com/bardown/lacrosse-tracker/internal/domain/conference"
	"github.com/bardown/lacrosse-tracker/internal/domain/game"
	"github.com/bardown/lacrosse-tracker/internal/domain/player"
	"github.com/bardown/lacrosse-tracker/internal/domain/stats"
	"github.com/bardown/lacrosse-tracker/internal/domain/team"
	"github.com/bardown/lacrosse-tracker/internal/infrastructure/repository/memory"
	"github.com/bardown/lacrosse-tracker/internal/infrastructure/repository/postgres"
	idgen "github.com/bardown/lacrosse-tracker/internal/platform/id"
	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
	"github.com/bardown/lacrosse-tracker/internal/platform/resilience"
	"github.com/bardown/lacrosse-tracker/internal/usecase"
)

// Ingestor bundles the wired scheduler and the resources it owns.
type Ingestor struct {
	Scheduler *usecase.SchedulerService
	db        *sqlx.DB
}

// Close releases the database handle when one was opened.
func (i *Ingestor) Close() error {
	if i.db == nil {
		return nil
	}
	return i.db.Close()
}

type repositories struct {
	conferences conference.Repository
	teams       team.Repository
	players     player.Repository
	games       game.Repository
	stats       stats.Repository
}

// NewIngestor wires the full ingestion pipeline: repositories against
// Postgres or the in-memory store, both source clients, the reconciler, and
// the scheduler.
func NewIngestor(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Ingestor, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var db *sqlx.DB
	var repos repositories
	if cfg.DBURL != "" {
		db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := postgres.SeedConferences(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		repos = repositories{
			conferences: postgres.NewConferenceRepository(db),
			teams:       postgres.NewTeamRepository(db),
			players:     postgres.NewPlayerRepository(db),
			games:       postgres.NewGameRepository(db, loc),
			stats:       postgres.NewStatsRepository(db),
		}
	} else {
		logger.Info("no DB_URL set, using in-memory store")
		repos = repositories{
			conferences: memory.NewConferenceRepository(memory.SeedConferences()),
			teams:       memory.NewTeamRepository(nil),
			players:     memory.NewPlayerRepository(nil),
			games:       memory.NewGameRepository(nil, loc),
			stats:       memory.NewStatsRepository(),
		}
	}

	scheduleProvider := ncaa.NewClient(ncaa.ClientConfig{
		HTTPClient:        &http.Client{Timeout: cfg.NCAATimeout},
		GraphQLURL:        cfg.NCAAGraphQLURL,
		ScoreboardPageURL: cfg.NCAAScoreboardPageURL,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NCAACircuitEnabled,
			FailureThreshold: cfg.NCAACircuitFailureCount,
			OpenTimeout:      cfg.NCAACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NCAACircuitHalfOpenMax,
		},
	})

	fallbackProvider := statbroadcast.NewClient(statbroadcast.ClientConfig{
		HTTPClient:        &http.Client{Timeout: cfg.StatBroadcastTimeout},
		PrimaryHost:       cfg.StatBroadcastPrimary,
		SecondaryHost:     cfg.StatBroadcastSecondary,
		RequestsPerSecond: cfg.StatBroadcastRatePerSec,
		Logger:            logger,
	})

	reconciler := usecase.NewReconcilerService(
		repos.conferences,
		repos.teams,
		repos.players,
		repos.games,
		repos.stats,
		idgen.NewRandomGenerator(),
		logger,
	)

	scheduler := usecase.NewSchedulerService(
		scheduleProvider,
		fallbackProvider,
		reconciler,
		repos.games,
		repos.teams,
		repos.conferences,
		repos.stats,
		usecase.SchedulerConfig{
			BaseInterval:    cfg.SchedulerBaseInterval,
			LiveInterval:    cfg.SchedulerLiveInterval,
			ActiveInterval:  cfg.SchedulerActiveInterval,
			IdleInterval:    cfg.SchedulerIdleInterval,
			BoxScoreWorkers: cfg.SchedulerBoxScoreWorkers,
			Location:        loc,
		},
		logger,
	)

	if db != nil {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	return &Ingestor{Scheduler: scheduler, db: db}, nil
}
