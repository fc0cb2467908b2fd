// Package product_repo provides the PostgreSQL product repository.
package product_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/product"
	"stockbook/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var productColumns = []string{
	"id", "name", "barcode", "category_id",
	"stock", "unit_cost", "stock_value", "min_stock",
	"created_at", "updated_at",
}

// GetByID returns the product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewProductNotFound(id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// GetForUpdate loads the product with a row-level write lock, serializing
// concurrent movement application for the same product.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*product.Product, error) {
	sql := `
		SELECT id, name, barcode, category_id,
		       stock, unit_cost, stock_value, min_stock,
		       created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p product.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, id); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewProductNotFound(id)
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	return &p, nil
}

// UpdateCostState overwrites the cost state tuple.
func (r *ProductRepo) UpdateCostState(ctx context.Context, id int64, state product.CostState) error {
	q := r.builder.Update(productsTable).
		Set("stock", state.Stock).
		Set("unit_cost", state.UnitCost).
		Set("stock_value", state.StockValue).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update cost state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewProductNotFound(id)
	}

	return nil
}

// ListRefs returns all products as refs with category names.
func (r *ProductRepo) ListRefs(ctx context.Context) (map[int64]product.Ref, error) {
	q := r.builder.Select(
		"p.id", "p.name", "p.barcode", "p.category_id",
		"c.name AS category_name",
	).From(productsTable + " p").
		LeftJoin("categories c ON c.id = p.category_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var refs []product.Ref
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &refs, sql, args...); err != nil {
		return nil, fmt.Errorf("select product refs: %w", err)
	}

	byID := make(map[int64]product.Ref, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}

	return byID, nil
}

// TotalValuation sums current stock value across all products.
func (r *ProductRepo) TotalValuation(ctx context.Context) (decimal.Decimal, error) {
	sql := `SELECT COALESCE(SUM(stock_value), 0) FROM products`

	var total decimal.Decimal
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total valuation: %w", err)
	}

	return total, nil
}

// Ensure interface compliance.
var _ product.Repository = (*ProductRepo)(nil)
