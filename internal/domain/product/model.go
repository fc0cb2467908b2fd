// Package product holds the product aggregate and its cost state.
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the mutable inventory aggregate. Its cost state is
// rewritten only by the ledger processor, never edited directly.
type Product struct {
	ID         int64           `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Barcode    string          `json:"barcode" db:"barcode"`
	CategoryID *int64          `json:"category_id" db:"category_id"`
	Stock      decimal.Decimal `json:"stock" db:"stock"`
	UnitCost   decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	StockValue decimal.Decimal `json:"stock_value" db:"stock_value"`
	MinStock   decimal.Decimal `json:"min_stock" db:"min_stock"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// CostState is the authoritative {stock, unit cost, stock value} tuple.
type CostState struct {
	Stock      decimal.Decimal `json:"stock"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// CostState returns the product's current cost state tuple.
func (p *Product) CostState() CostState {
	return CostState{
		Stock:      p.Stock,
		UnitCost:   p.UnitCost,
		StockValue: p.StockValue,
	}
}

// Ref is a lightweight product reference with denormalized category
// info, used by snapshots and reports.
type Ref struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Barcode      string  `json:"barcode" db:"barcode"`
	CategoryID   *int64  `json:"category_id" db:"category_id"`
	CategoryName *string `json:"category_name" db:"category_name"`
}
