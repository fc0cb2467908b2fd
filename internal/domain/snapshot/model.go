// Package snapshot materializes per-product monthly closing balances
// from the ledger. Snapshots are derived data: regenerable at any
// time, destructively per month.
package snapshot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one product's closing state and activity for a month.
// Product and category names are denormalized at generation time so
// historical reports survive later renames.
type Snapshot struct {
	ID        int64 `json:"id" db:"id"`
	Year      int   `json:"year" db:"year"`
	Month     int   `json:"month" db:"month"`
	ProductID int64 `json:"product_id" db:"product_id"`

	ClosingStock decimal.Decimal `json:"closing_stock" db:"closing_stock"`
	ClosingCost  decimal.Decimal `json:"closing_cost" db:"closing_cost"`
	ClosingValue decimal.Decimal `json:"closing_value" db:"closing_value"`

	InQty         decimal.Decimal `json:"in_qty" db:"in_qty"`
	OutQty        decimal.Decimal `json:"out_qty" db:"out_qty"`
	NetQty        decimal.Decimal `json:"net_qty" db:"net_qty"`
	InValue       decimal.Decimal `json:"in_value" db:"in_value"`
	OutValue      decimal.Decimal `json:"out_value" db:"out_value"`
	NetValue      decimal.Decimal `json:"net_value" db:"net_value"`
	MovementCount int             `json:"movement_count" db:"movement_count"`

	ProductName    string    `json:"product_name" db:"product_name"`
	ProductBarcode string    `json:"product_barcode" db:"product_barcode"`
	CategoryID     *int64    `json:"category_id" db:"category_id"`
	CategoryName   *string   `json:"category_name" db:"category_name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// MonthStats summarizes one generated month.
type MonthStats struct {
	Year          int             `json:"year" db:"year"`
	Month         int             `json:"month" db:"month"`
	ProductCount  int             `json:"product_count" db:"product_count"`
	TotalValue    decimal.Decimal `json:"total_value" db:"total_value"`
	MovementCount int             `json:"movement_count" db:"movement_count"`
	GeneratedAt   time.Time       `json:"generated_at" db:"generated_at"`
}

// Result reports a single month's generation outcome.
type Result struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	ProductCount int `json:"product_count"`
}

// CategoryGroup is a month's snapshots grouped by category.
type CategoryGroup struct {
	CategoryID   *int64          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Products     []Snapshot      `json:"products"`
	TotalValue   decimal.Decimal `json:"total_value"`
}
