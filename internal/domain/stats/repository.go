package stats

import "context"

// Repository describes box-score stat persistence needs from use cases.
type Repository interface {
	// UpsertGameStats matches on (game, team) and replaces the counter set,
	// inserting with the given ID only when the pair is unseen.
	UpsertGameStats(ctx context.Context, item GameStats) error
	// UpsertPlayerGameStats matches on (game, player) and replaces the
	// counter set, inserting with the given ID only when the pair is unseen.
	UpsertPlayerGameStats(ctx context.Context, item PlayerGameStats) error
	// HasPlayerStats reports whether any player line exists for the game,
	// used to skip redundant box-score scrapes.
	HasPlayerStats(ctx context.Context, gameID string) (bool, error)
}
