package catalog

import "context"

// Repository provides read-only access to reference dimensions.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
}
