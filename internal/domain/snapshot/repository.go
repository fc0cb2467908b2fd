package snapshot

import "context"

// Repository persists monthly snapshots.
type Repository interface {
	// DeleteMonth removes all snapshot rows for (year, month).
	DeleteMonth(ctx context.Context, year, month int) error

	// InsertBatch persists the month's rows in one statement.
	InsertBatch(ctx context.Context, rows []Snapshot) error

	// ListMonth returns the month's rows ordered by category and
	// product name.
	ListMonth(ctx context.Context, year, month int) ([]Snapshot, error)

	// GetForProduct returns one product's snapshot for the month, or
	// nil when absent.
	GetForProduct(ctx context.Context, year, month int, productID int64) (*Snapshot, error)

	// MonthStats returns per-month aggregates for all generated
	// months, newest first.
	MonthStats(ctx context.Context) ([]MonthStats, error)
}
