// Package ledger_repo provides the PostgreSQL ledger repository.
// The ledger is append-only: the repository exposes no update or
// delete.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const entriesTable = "ledger_entries"

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var entryColumns = []string{
	"id", "product_id", "kind", "quantity", "unit_price", "total_price",
	"stock_before", "stock_after", "unit_cost_after", "stock_value_after",
	"requester", "purpose", "project_id", "created_at",
}

// Insert appends an entry and fills in its generated id.
func (r *LedgerRepo) Insert(ctx context.Context, entry *ledger.Entry) error {
	q := r.builder.Insert(entriesTable).
		Columns(
			"product_id", "kind", "quantity", "unit_price", "total_price",
			"stock_before", "stock_after", "unit_cost_after", "stock_value_after",
			"requester", "purpose", "project_id", "created_at",
		).
		Values(
			entry.ProductID, entry.Kind, entry.Quantity, entry.UnitPrice, entry.TotalPrice,
			entry.StockBefore, entry.StockAfter, entry.UnitCostAfter, entry.StockValueAfter,
			entry.Requester, entry.Purpose, entry.ProjectID, entry.CreatedAt,
		).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&entry.ID); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

// GetByID returns one entry.
func (r *LedgerRepo) GetByID(ctx context.Context, id int64) (*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(entriesTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.Entry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ledger entry", id)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &entry, nil
}

// List returns entries matching the filter, newest first.
func (r *LedgerRepo) List(ctx context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).From(entriesTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.ProjectID != nil {
		q = q.Where(squirrel.Eq{"project_id": *filter.ProjectID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.To})
	}

	q = q.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []ledger.Entry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// ListBefore returns all entries created before the cutoff in replay
// order.
func (r *LedgerRepo) ListBefore(ctx context.Context, before time.Time) ([]ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(entriesTable).
		Where(squirrel.Lt{"created_at": before}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []ledger.Entry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries before cutoff: %w", err)
	}

	return entries, nil
}

// ListForProductBefore is ListBefore narrowed to one product.
func (r *LedgerRepo) ListForProductBefore(ctx context.Context, productID int64, before time.Time) ([]ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(entriesTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Lt{"created_at": before}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []ledger.Entry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select product entries: %w", err)
	}

	return entries, nil
}

// ListOutbound returns OUT entries inside [from, to) with reference
// names resolved.
func (r *LedgerRepo) ListOutbound(ctx context.Context, from, to time.Time) ([]ledger.OutboundRecord, error) {
	sql := `
		SELECT e.id, e.product_id, e.kind, e.quantity, e.unit_price, e.total_price,
		       e.stock_before, e.stock_after, e.unit_cost_after, e.stock_value_after,
		       e.requester, e.purpose, e.project_id, e.created_at,
		       p.name AS product_name, p.barcode,
		       c.name AS category_name,
		       pr.name AS project_name
		FROM ledger_entries e
		JOIN products p ON p.id = e.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN projects pr ON pr.id = e.project_id
		WHERE e.kind = 'OUT' AND e.created_at >= $1 AND e.created_at < $2
		ORDER BY e.created_at, e.id
	`

	var records []ledger.OutboundRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, from, to); err != nil {
		return nil, fmt.Errorf("select outbound entries: %w", err)
	}

	return records, nil
}

// MonthlyActivity aggregates per-product totals inside [from, to).
func (r *LedgerRepo) MonthlyActivity(ctx context.Context, from, to time.Time) (map[int64]ledger.ProductActivity, error) {
	sql := `
		SELECT product_id,
		       COALESCE(SUM(quantity) FILTER (WHERE kind = 'IN'), 0) AS in_qty,
		       COALESCE(SUM(quantity) FILTER (WHERE kind = 'OUT'), 0) AS out_qty,
		       COALESCE(SUM(total_price) FILTER (WHERE kind = 'IN'), 0) AS in_value,
		       COALESCE(SUM(total_price) FILTER (WHERE kind = 'OUT'), 0) AS out_value,
		       COUNT(*) AS movement_count
		FROM ledger_entries
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY product_id
	`

	var rows []ledger.ProductActivity
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, from, to); err != nil {
		return nil, fmt.Errorf("aggregate activity: %w", err)
	}

	activity := make(map[int64]ledger.ProductActivity, len(rows))
	for _, a := range rows {
		activity[a.ProductID] = a
	}

	return activity, nil
}

// Ensure interface compliance.
var _ ledger.Repository = (*LedgerRepo)(nil)
