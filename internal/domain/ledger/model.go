// Package ledger implements the transaction processor: it applies
// stock movements to product cost state using weighted-average
// costing and records each movement as an immutable ledger entry.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the movement direction.
type Kind string

const (
	KindIn  Kind = "IN"
	KindOut Kind = "OUT"
)

// Valid reports whether k is a known movement kind.
func (k Kind) Valid() bool {
	return k == KindIn || k == KindOut
}

// Movement is a single stock movement request.
type Movement struct {
	ProductID int64           `json:"product_id"`
	Kind      Kind            `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	// UnitPrice is required for IN and ignored for OUT, where the
	// current weighted-average cost is used instead.
	UnitPrice decimal.Decimal `json:"unit_price"`
	Requester string          `json:"requester"`
	Purpose   string          `json:"purpose"`
	ProjectID *int64          `json:"project_id"`
}

// Entry is one immutable ledger record. It carries both the movement's
// own price/quantity and the post-movement running totals.
type Entry struct {
	ID              int64           `json:"id" db:"id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	Kind            Kind            `json:"kind" db:"kind"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price" db:"total_price"`
	StockBefore     decimal.Decimal `json:"stock_before" db:"stock_before"`
	StockAfter      decimal.Decimal `json:"stock_after" db:"stock_after"`
	UnitCostAfter   decimal.Decimal `json:"unit_cost_after" db:"unit_cost_after"`
	StockValueAfter decimal.Decimal `json:"stock_value_after" db:"stock_value_after"`
	Requester       string          `json:"requester" db:"requester"`
	Purpose         string          `json:"purpose" db:"purpose"`
	ProjectID       *int64          `json:"project_id" db:"project_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// OutboundRecord is an OUT entry enriched with reference names, used
// for financial export.
type OutboundRecord struct {
	Entry
	ProductName  string  `json:"product_name" db:"product_name"`
	Barcode      string  `json:"barcode" db:"barcode"`
	CategoryName *string `json:"category_name" db:"category_name"`
	ProjectName  *string `json:"project_name" db:"project_name"`
}

// ProductActivity aggregates one product's movements inside a period.
type ProductActivity struct {
	ProductID     int64           `json:"product_id" db:"product_id"`
	InQty         decimal.Decimal `json:"in_qty" db:"in_qty"`
	OutQty        decimal.Decimal `json:"out_qty" db:"out_qty"`
	InValue       decimal.Decimal `json:"in_value" db:"in_value"`
	OutValue      decimal.Decimal `json:"out_value" db:"out_value"`
	MovementCount int             `json:"movement_count" db:"movement_count"`
}

// Filter narrows ledger listings.
type Filter struct {
	ProductID *int64
	Kind      *Kind
	ProjectID *int64
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
