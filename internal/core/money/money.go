// Package money provides fixed-precision arithmetic for stock valuation.
//
// Two precision tiers are used throughout the engine:
//   - CalcPlaces (6 fractional digits) for every intermediate step, so a
//     long chain of movements does not accumulate binary-float drift;
//   - StorePlaces (4 fractional digits) for anything persisted or shown.
//
// All arithmetic in the valuation engine must go through this package.
// Mixing raw float64 math with these functions is a correctness bug.
package money

import "github.com/shopspring/decimal"

const (
	// CalcPlaces is the intermediate calculation precision.
	CalcPlaces int32 = 6

	// StorePlaces is the storage and display precision.
	StorePlaces int32 = 4
)

// tolerance for Equal, one unit of the last stored digit.
var tolerance = decimal.New(1, -StorePlaces)

// Add returns a+b rounded half-up to CalcPlaces.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b).Round(CalcPlaces)
}

// Sub returns a-b rounded half-up to CalcPlaces.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Round(CalcPlaces)
}

// Mul returns a*b rounded half-up to CalcPlaces.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(CalcPlaces)
}

// Div returns a/b rounded half-up to CalcPlaces.
//
// Div(a, 0) is defined as 0, not an error: a zero divisor only arises
// when total quantity is zero, and empty stock has no meaningful unit
// cost. Zero is the convention the rest of the engine relies on.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b).Round(CalcPlaces)
}

// ToStored rounds half-up to StorePlaces for persistence and display.
func ToStored(a decimal.Decimal) decimal.Decimal {
	return a.Round(StorePlaces)
}

// WeightedAverage computes the new average unit cost after an inbound
// movement: (current value + incoming value) / (current qty + incoming qty).
//
// The caller must pass the actual current stock value, never a recomputed
// stock*unitCost, so rounding residue does not compound across movements.
func WeightedAverage(stock, stockValue, inQty, inPrice decimal.Decimal) decimal.Decimal {
	totalValue := Add(stockValue, Mul(inQty, inPrice))
	totalQty := Add(stock, inQty)
	return Div(totalValue, totalQty)
}

// Equal reports whether a and b agree within storage-precision tolerance.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(tolerance)
}

// FromFloat converts a float input (e.g. a JSON number) to a decimal at
// calculation precision. Prefer decimal inputs where the transport allows.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(CalcPlaces)
}

// MustFromString parses a decimal literal, panicking on malformed input.
// Use only for constants and test fixtures.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
