package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	FindByExternalID(ctx context.Context, externalID string) (Team, bool, error)
	// FindByNames returns the first team whose name matches any of the given
	// name variants exactly.
	FindByNames(ctx context.Context, names []string) (Team, bool, error)
	FindByAbbreviation(ctx context.Context, abbreviation string) (Team, bool, error)
	// Upsert inserts the team when its ID is unseen and overwrites it otherwise.
	Upsert(ctx context.Context, item Team) error
}
