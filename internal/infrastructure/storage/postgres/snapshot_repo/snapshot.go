// Package snapshot_repo provides the PostgreSQL snapshot repository.
package snapshot_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/domain/snapshot"
	"stockbook/internal/infrastructure/storage/postgres"
)

const snapshotsTable = "monthly_snapshots"

// SnapshotRepo implements snapshot.Repository.
type SnapshotRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSnapshotRepo creates a new snapshot repository.
func NewSnapshotRepo(txm *postgres.TxManager) *SnapshotRepo {
	return &SnapshotRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var snapshotColumns = []string{
	"id", "year", "month", "product_id",
	"closing_stock", "closing_cost", "closing_value",
	"in_qty", "out_qty", "net_qty", "in_value", "out_value", "net_value",
	"movement_count", "product_name", "product_barcode",
	"category_id", "category_name", "created_at",
}

// DeleteMonth removes all rows for (year, month).
func (r *SnapshotRepo) DeleteMonth(ctx context.Context, year, month int) error {
	q := r.builder.Delete(snapshotsTable).
		Where(squirrel.Eq{"year": year, "month": month})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete month: %w", err)
	}

	return nil
}

// InsertBatch persists the month's rows in one statement.
func (r *SnapshotRepo) InsertBatch(ctx context.Context, rows []snapshot.Snapshot) error {
	if len(rows) == 0 {
		return nil
	}

	q := r.builder.Insert(snapshotsTable).Columns(
		"year", "month", "product_id",
		"closing_stock", "closing_cost", "closing_value",
		"in_qty", "out_qty", "net_qty", "in_value", "out_value", "net_value",
		"movement_count", "product_name", "product_barcode",
		"category_id", "category_name", "created_at",
	)

	for _, s := range rows {
		q = q.Values(
			s.Year, s.Month, s.ProductID,
			s.ClosingStock, s.ClosingCost, s.ClosingValue,
			s.InQty, s.OutQty, s.NetQty, s.InValue, s.OutValue, s.NetValue,
			s.MovementCount, s.ProductName, s.ProductBarcode,
			s.CategoryID, s.CategoryName, s.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}

	return nil
}

// ListMonth returns the month's rows ordered by category and product.
func (r *SnapshotRepo) ListMonth(ctx context.Context, year, month int) ([]snapshot.Snapshot, error) {
	q := r.builder.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"year": year, "month": month}).
		OrderBy("category_name NULLS LAST", "product_name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []snapshot.Snapshot
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select month: %w", err)
	}

	return rows, nil
}

// GetForProduct returns one product's snapshot or nil when absent.
func (r *SnapshotRepo) GetForProduct(ctx context.Context, year, month int, productID int64) (*snapshot.Snapshot, error) {
	q := r.builder.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"year": year, "month": month, "product_id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s snapshot.Snapshot
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return &s, nil
}

// MonthStats returns per-month aggregates, newest first.
func (r *SnapshotRepo) MonthStats(ctx context.Context) ([]snapshot.MonthStats, error) {
	sql := `
		SELECT year, month,
		       COUNT(*) AS product_count,
		       COALESCE(SUM(closing_value), 0) AS total_value,
		       COALESCE(SUM(movement_count), 0) AS movement_count,
		       MAX(created_at) AS generated_at
		FROM monthly_snapshots
		GROUP BY year, month
		ORDER BY year DESC, month DESC
	`

	var stats []snapshot.MonthStats
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &stats, sql); err != nil {
		return nil, fmt.Errorf("select month stats: %w", err)
	}

	return stats, nil
}

// Ensure interface compliance.
var _ snapshot.Repository = (*SnapshotRepo)(nil)
