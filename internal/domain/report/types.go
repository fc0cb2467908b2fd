// Package report assembles period ledger reports from snapshots and
// current ledger activity.
package report

import "github.com/shopspring/decimal"

// ProductRow is one product's line in the monthly ledger.
type ProductRow struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Barcode     string `json:"barcode"`

	OpeningStock decimal.Decimal `json:"opening_stock"`
	OpeningCost  decimal.Decimal `json:"opening_cost"`
	OpeningValue decimal.Decimal `json:"opening_value"`

	InQty    decimal.Decimal `json:"in_qty"`
	OutQty   decimal.Decimal `json:"out_qty"`
	InValue  decimal.Decimal `json:"in_value"`
	OutValue decimal.Decimal `json:"out_value"`
	NetValue decimal.Decimal `json:"net_value"`

	ClosingStock decimal.Decimal `json:"closing_stock"`
	ClosingCost  decimal.Decimal `json:"closing_cost"`
	ClosingValue decimal.Decimal `json:"closing_value"`

	MovementCount int `json:"movement_count"`
}

// CategoryBlock groups product rows under one category.
type CategoryBlock struct {
	CategoryID   *int64          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Products     []ProductRow    `json:"products"`
	OpeningValue decimal.Decimal `json:"opening_value"`
	ClosingValue decimal.Decimal `json:"closing_value"`
	NetValue     decimal.Decimal `json:"net_value"`
}

// Summary totals the whole report.
type Summary struct {
	OpeningValue  decimal.Decimal `json:"opening_value"`
	ClosingValue  decimal.Decimal `json:"closing_value"`
	InValue       decimal.Decimal `json:"in_value"`
	OutValue      decimal.Decimal `json:"out_value"`
	NetValue      decimal.Decimal `json:"net_value"`
	MovementCount int             `json:"movement_count"`
	ProductCount  int             `json:"product_count"`
}

// MonthlyLedger is the full report for one month.
type MonthlyLedger struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Categories []CategoryBlock `json:"categories"`
	Summary    Summary         `json:"summary"`
}
