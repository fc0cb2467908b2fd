package ledger

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/money"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain/period"
	"stockbook/internal/domain/product"
	"stockbook/pkg/logger"
)

// Service applies stock movements and serves ledger queries.
type Service struct {
	products product.Repository
	entries  Repository
	tx       tx.Manager
	now      func() time.Time
}

// NewService creates a ledger service.
func NewService(products product.Repository, entries Repository, txm tx.Manager) *Service {
	return &Service{
		products: products,
		entries:  entries,
		tx:       txm,
		now:      time.Now,
	}
}

// ApplyMovement applies a single movement inside one transaction.
// Business rejections (invalid quantity, missing price, insufficient
// stock, unknown product) are returned without any state change.
func (s *Service) ApplyMovement(ctx context.Context, m Movement) (*Entry, error) {
	var entry *Entry

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.applyOne(ctx, m)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "applied stock movement",
		"entry_id", entry.ID,
		"product_id", entry.ProductID,
		"kind", entry.Kind,
		"quantity", entry.Quantity,
		"stock_after", entry.StockAfter,
	)

	return entry, nil
}

// applyOne locks the product row, computes the new cost state, appends
// the ledger entry and writes the state back. Must run inside a
// transaction.
func (s *Service) applyOne(ctx context.Context, m Movement) (*Entry, error) {
	if !m.Kind.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown movement kind %q", m.Kind))
	}

	p, err := s.products.GetForUpdate(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}

	next, entry, err := applyToState(p.CostState(), m)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = s.now()

	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}
	if err := s.products.UpdateCostState(ctx, m.ProductID, next); err != nil {
		return nil, fmt.Errorf("update cost state: %w", err)
	}

	return entry, nil
}

// applyToState computes the movement's effect on a cost state. Pure:
// no I/O, no side effects. The returned state and entry carry values
// at storage precision so persisted state matches later replay.
func applyToState(state product.CostState, m Movement) (product.CostState, *Entry, error) {
	if !m.Quantity.IsPositive() {
		return state, nil, apperror.NewInvalidQuantity(m.Quantity)
	}

	var (
		next  product.CostState
		price = m.UnitPrice
	)

	switch m.Kind {
	case KindIn:
		if !m.UnitPrice.IsPositive() {
			return state, nil, apperror.NewMissingUnitPrice(m.ProductID)
		}
		// The average folds the incoming value into the actual running
		// stock value, not stock*cost recomputed, so rounding residue
		// does not compound across movements.
		newValue := money.Add(state.StockValue, money.Mul(m.Quantity, m.UnitPrice))
		next = product.CostState{
			Stock:      money.ToStored(money.Add(state.Stock, m.Quantity)),
			UnitCost:   money.ToStored(money.WeightedAverage(state.Stock, state.StockValue, m.Quantity, m.UnitPrice)),
			StockValue: money.ToStored(newValue),
		}

	case KindOut:
		if m.Quantity.GreaterThan(state.Stock) {
			return state, nil, apperror.NewInsufficientStock(m.ProductID, m.Quantity, state.Stock)
		}
		// Outbound consumes at the current weighted-average cost.
		price = state.UnitCost
		if m.Quantity.Equal(state.Stock) {
			// Full liquidation closes at exactly zero, leaving no
			// rounding residue behind.
			next = product.CostState{}
		} else {
			next = product.CostState{
				Stock:      money.ToStored(money.Sub(state.Stock, m.Quantity)),
				UnitCost:   state.UnitCost,
				StockValue: money.ToStored(money.Sub(state.StockValue, money.Mul(m.Quantity, state.UnitCost))),
			}
		}

	default:
		return state, nil, apperror.NewValidation(fmt.Sprintf("unknown movement kind %q", m.Kind))
	}

	entry := &Entry{
		ProductID:       m.ProductID,
		Kind:            m.Kind,
		Quantity:        money.ToStored(m.Quantity),
		UnitPrice:       money.ToStored(price),
		TotalPrice:      money.ToStored(money.Mul(m.Quantity, price)),
		StockBefore:     state.Stock,
		StockAfter:      next.Stock,
		UnitCostAfter:   next.UnitCost,
		StockValueAfter: next.StockValue,
		Requester:       m.Requester,
		Purpose:         m.Purpose,
		ProjectID:       m.ProjectID,
	}

	return next, entry, nil
}

// GetEntry returns a single ledger entry.
func (s *Service) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

// List returns ledger entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.entries.List(ctx, filter)
}

// Recent returns the latest entries across all products.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.List(ctx, Filter{Limit: limit})
}

// ListOutbound returns the month's OUT entries with reference names,
// for financial export.
func (s *Service) ListOutbound(ctx context.Context, p period.Period) ([]OutboundRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.entries.ListOutbound(ctx, p.Start(), p.End())
}
