package conference

import "context"

// Repository describes conference persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Conference, error)
	GetByID(ctx context.Context, conferenceID string) (Conference, bool, error)
	FindByAbbreviation(ctx context.Context, abbreviation string) (Conference, bool, error)
	FindByName(ctx context.Context, name string) (Conference, bool, error)
	// First returns an arbitrary but stable conference, used as the
	// last-resort fallback when a scraped conference label cannot be mapped.
	First(ctx context.Context) (Conference, bool, error)
	Create(ctx context.Context, item Conference) error
}
