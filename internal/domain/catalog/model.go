// Package catalog exposes the category and project reference
// dimensions. They are owned elsewhere and consumed read-only here.
package catalog

// Category groups products for reporting.
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Project tags outbound movements for cost attribution.
type Project struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}
