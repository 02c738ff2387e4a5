package cards

import "context"

// Repository is the card catalog as seen by the domain. Catalog ingestion lives
// elsewhere; this only resolves cards that are already stored.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Card, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Card, error)
	GetBySet(ctx context.Context, setID string) ([]*Card, error)
	GetAll(ctx context.Context) ([]*Card, error)
}
