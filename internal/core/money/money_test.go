package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestArithmeticRounding(t *testing.T) {
	tests := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"add", Add(MustFromString("0.1"), MustFromString("0.2")), "0.3"},
		{"add rounds to six places", Add(MustFromString("1.0000004"), decimal.Zero), "1.000000"},
		{"add rounds half up", Add(MustFromString("1.0000005"), decimal.Zero), "1.000001"},
		{"sub", Sub(MustFromString("120"), MustFromString("0.000001")), "119.999999"},
		{"mul", Mul(MustFromString("3"), MustFromString("0.3333335")), "1.000001"},
		{"div", Div(MustFromString("1"), MustFromString("3")), "0.333333"},
		{"div by zero is zero", Div(MustFromString("42"), decimal.Zero), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := MustFromString(tt.want)
			if !tt.got.Equal(want) {
				t.Errorf("want %s, got %s", want, tt.got)
			}
		})
	}
}

func TestToStored(t *testing.T) {
	assert.True(t, ToStored(MustFromString("1.00005")).Equal(MustFromString("1.0001")))
	assert.True(t, ToStored(MustFromString("1.00004")).Equal(MustFromString("1.0000")))
	assert.True(t, ToStored(MustFromString("6")).Equal(MustFromString("6")))
}

func TestWeightedAverage(t *testing.T) {
	// Empty stock: average is simply the inbound price.
	avg := WeightedAverage(decimal.Zero, decimal.Zero, MustFromString("10"), MustFromString("5"))
	assert.True(t, avg.Equal(MustFromString("5")), "got %s", avg)

	// 10 @ 5.00 on hand, 10 more @ 7.00 coming in: average 6.00.
	avg = WeightedAverage(MustFromString("10"), MustFromString("50"), MustFromString("10"), MustFromString("7"))
	assert.True(t, avg.Equal(MustFromString("6")), "got %s", avg)

	// Zero total quantity falls back to zero cost.
	avg = WeightedAverage(decimal.Zero, decimal.Zero, decimal.Zero, MustFromString("9.99"))
	assert.True(t, avg.IsZero())
}

func TestWeightedAverageUsesActualValue(t *testing.T) {
	// The third argument to the formula is the running stock value, which
	// can legitimately differ from stock*cost by a rounding residue. The
	// average must be derived from the value, not from a recomputation.
	stock := MustFromString("3")
	value := MustFromString("10.0001") // not 3 * 3.3334
	avg := WeightedAverage(stock, value, MustFromString("1"), MustFromString("2"))
	want := Div(Add(value, MustFromString("2")), MustFromString("4"))
	assert.True(t, avg.Equal(want), "want %s, got %s", want, avg)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(MustFromString("1.00004"), MustFromString("1.0000")))
	assert.False(t, Equal(MustFromString("1.0002"), MustFromString("1.0000")))
}
