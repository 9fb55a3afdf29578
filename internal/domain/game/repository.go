package game

import (
	"context"
	"time"
)

// Repository describes game persistence needs from use cases.
type Repository interface {
	// FindByExternalID matches either source identifier against the given
	// value, so a record first seen via one source is found again via the
	// other.
	FindByExternalID(ctx context.Context, externalID string) (Game, bool, error)
	// FindByTeamsOnDay matches by home team, away team, and calendar day of
	// the start time in the store's local time zone.
	FindByTeamsOnDay(ctx context.Context, homeTeamID, awayTeamID string, day time.Time) (Game, bool, error)
	ListLive(ctx context.Context) ([]Game, error)
	// ListNeedingBoxScores returns live and final games that carry a
	// fallback-source identifier, the precondition for box-score scraping.
	ListNeedingBoxScores(ctx context.Context) ([]Game, error)
	// Upsert inserts the game when its ID is unseen and overwrites it otherwise.
	Upsert(ctx context.Context, item Game) error
	// UpsertQuarterScore matches on (game, quarter) and replaces the scores,
	// inserting with the given ID only when the period is unseen.
	UpsertQuarterScore(ctx context.Context, item QuarterScore) error
}
