package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Save(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uint64) (*Customer, error)

	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Customer, error)

	Count(ctx context.Context) (int64, error)
}
