// Package catalog_repo provides read-only access to categories and
// projects.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	categoriesTable = "categories"
	projectsTable   = "projects"
)

// CatalogRepo implements catalog.Repository.
type CatalogRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCatalogRepo creates a new catalog repository.
func NewCatalogRepo(txm *postgres.TxManager) *CatalogRepo {
	return &CatalogRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListCategories returns all categories ordered by name.
func (r *CatalogRepo) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	q := r.builder.Select("id", "name", "description").
		From(categoriesTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []catalog.Category
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}

	return categories, nil
}

// GetCategory returns one category.
func (r *CatalogRepo) GetCategory(ctx context.Context, id int64) (*catalog.Category, error) {
	q := r.builder.Select("id", "name", "description").
		From(categoriesTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c catalog.Category
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

// GetProject returns one project.
func (r *CatalogRepo) GetProject(ctx context.Context, id int64) (*catalog.Project, error) {
	q := r.builder.Select("id", "name", "description").
		From(projectsTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p catalog.Project
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project", id)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &p, nil
}

// Ensure interface compliance.
var _ catalog.Repository = (*CatalogRepo)(nil)
