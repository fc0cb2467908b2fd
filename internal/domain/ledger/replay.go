package ledger

import (
	"stockbook/internal/core/money"
	"stockbook/internal/domain/product"
)

// ReplayState folds a product's ledger entries from an empty state
// through the weighted-average-cost algorithm. Entries must be in
// chronological order. Each step rounds to storage precision, so the
// result matches the persisted cost state after the same movements.
func ReplayState(entries []Entry) product.CostState {
	var state product.CostState

	for _, e := range entries {
		switch e.Kind {
		case KindIn:
			newValue := money.Add(state.StockValue, money.Mul(e.Quantity, e.UnitPrice))
			state = product.CostState{
				Stock:      money.ToStored(money.Add(state.Stock, e.Quantity)),
				UnitCost:   money.ToStored(money.WeightedAverage(state.Stock, state.StockValue, e.Quantity, e.UnitPrice)),
				StockValue: money.ToStored(newValue),
			}

		case KindOut:
			// Drained stock closes at exactly zero. Quantities above
			// the replayed stock can only come from inconsistent
			// history; clamping to zero keeps the fold total.
			if e.Quantity.GreaterThanOrEqual(state.Stock) {
				state = product.CostState{}
				continue
			}
			state = product.CostState{
				Stock:      money.ToStored(money.Sub(state.Stock, e.Quantity)),
				UnitCost:   state.UnitCost,
				StockValue: money.ToStored(money.Sub(state.StockValue, money.Mul(e.Quantity, state.UnitCost))),
			}
		}
	}

	return state
}

// GroupByProduct splits chronologically ordered entries into
// per-product chronological slices.
func GroupByProduct(entries []Entry) map[int64][]Entry {
	grouped := make(map[int64][]Entry)
	for _, e := range entries {
		grouped[e.ProductID] = append(grouped[e.ProductID], e)
	}
	return grouped
}
