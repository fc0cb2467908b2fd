package ledger

import (
	"context"
	"time"
)

// Repository persists ledger entries. The ledger is append-only:
// there is no update or delete.
type Repository interface {
	// Insert appends an entry and fills in its generated id.
	Insert(ctx context.Context, entry *Entry) error

	// GetByID returns the entry or a NOT_FOUND error.
	GetByID(ctx context.Context, id int64) (*Entry, error)

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// ListBefore returns all entries created before the cutoff,
	// ordered by (created_at, id) ascending for replay.
	ListBefore(ctx context.Context, before time.Time) ([]Entry, error)

	// ListForProductBefore is ListBefore narrowed to one product.
	ListForProductBefore(ctx context.Context, productID int64, before time.Time) ([]Entry, error)

	// ListOutbound returns OUT entries inside [from, to) with product,
	// category and project names.
	ListOutbound(ctx context.Context, from, to time.Time) ([]OutboundRecord, error)

	// MonthlyActivity aggregates per-product movement totals inside
	// [from, to).
	MonthlyActivity(ctx context.Context, from, to time.Time) (map[int64]ProductActivity, error)
}
