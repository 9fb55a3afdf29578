package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	FindByName(ctx context.Context, teamID, lastName, firstName string) (Player, bool, error)
	Create(ctx context.Context, item Player) error
	// Update overwrites an existing player row, used to backfill a jersey
	// number learned from a later scrape.
	Update(ctx context.Context, item Player) error
}
