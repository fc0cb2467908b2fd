package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository provides product persistence.
type Repository interface {
	// GetByID returns the product or a PRODUCT_NOT_FOUND error.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// GetForUpdate loads the product with a row-level write lock.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, id int64) (*Product, error)

	// UpdateCostState overwrites the product's cost state tuple and
	// bumps updated_at.
	UpdateCostState(ctx context.Context, id int64, state CostState) error

	// ListRefs returns lightweight refs with category names for all
	// products, keyed by id.
	ListRefs(ctx context.Context) (map[int64]Ref, error)

	// TotalValuation sums the current stock value across all products.
	TotalValuation(ctx context.Context) (decimal.Decimal, error)
}
