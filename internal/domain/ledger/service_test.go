package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain/period"
	"stockbook/internal/domain/product"
)

// --- in-memory fakes ---

type fakeProducts struct {
	byID map[int64]*product.Product
}

func newFakeProducts(products ...*product.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[int64]*product.Product)}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewProductNotFound(id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) GetForUpdate(ctx context.Context, id int64) (*product.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProducts) UpdateCostState(_ context.Context, id int64, state product.CostState) error {
	p, ok := f.byID[id]
	if !ok {
		return apperror.NewProductNotFound(id)
	}
	p.Stock = state.Stock
	p.UnitCost = state.UnitCost
	p.StockValue = state.StockValue
	return nil
}

func (f *fakeProducts) ListRefs(context.Context) (map[int64]product.Ref, error) {
	refs := make(map[int64]product.Ref)
	for id, p := range f.byID {
		refs[id] = product.Ref{ID: id, Name: p.Name, Barcode: p.Barcode, CategoryID: p.CategoryID}
	}
	return refs, nil
}

func (f *fakeProducts) TotalValuation(context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range f.byID {
		total = total.Add(p.StockValue)
	}
	return total, nil
}

type fakeEntries struct {
	rows   []Entry
	nextID int64
}

func (f *fakeEntries) Insert(_ context.Context, e *Entry) error {
	f.nextID++
	e.ID = f.nextID
	f.rows = append(f.rows, *e)
	return nil
}

func (f *fakeEntries) GetByID(_ context.Context, id int64) (*Entry, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			e := f.rows[i]
			return &e, nil
		}
	}
	return nil, apperror.NewNotFound("ledger entry", id)
}

func (f *fakeEntries) List(_ context.Context, filter Filter) ([]Entry, error) {
	var out []Entry
	for i := len(f.rows) - 1; i >= 0; i-- {
		e := f.rows[i]
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeEntries) ListBefore(_ context.Context, before time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range f.rows {
		if e.CreatedAt.Before(before) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntries) ListForProductBefore(ctx context.Context, productID int64, before time.Time) ([]Entry, error) {
	all, _ := f.ListBefore(ctx, before)
	var out []Entry
	for _, e := range all {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntries) ListOutbound(_ context.Context, from, to time.Time) ([]OutboundRecord, error) {
	var out []OutboundRecord
	for _, e := range f.rows {
		if e.Kind == KindOut && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, OutboundRecord{Entry: e})
		}
	}
	return out, nil
}

func (f *fakeEntries) MonthlyActivity(_ context.Context, from, to time.Time) (map[int64]ProductActivity, error) {
	acts := make(map[int64]ProductActivity)
	for _, e := range f.rows {
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		a := acts[e.ProductID]
		a.ProductID = e.ProductID
		a.MovementCount++
		if e.Kind == KindIn {
			a.InQty = a.InQty.Add(e.Quantity)
			a.InValue = a.InValue.Add(e.TotalPrice)
		} else {
			a.OutQty = a.OutQty.Add(e.Quantity)
			a.OutValue = a.OutValue.Add(e.TotalPrice)
		}
		acts[e.ProductID] = a
	}
	return acts, nil
}

func newTestService(products ...*product.Product) (*Service, *fakeProducts, *fakeEntries) {
	fp := newFakeProducts(products...)
	fe := &fakeEntries{}
	svc := NewService(fp, fe, tx.Noop{})
	return svc, fp, fe
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func emptyProduct(id int64) *product.Product {
	return &product.Product{ID: id, Name: "Bolt M6", Barcode: "100001"}
}

// --- tests ---

func TestApplyMovementWeightedAverage(t *testing.T) {
	svc, fp, _ := newTestService(emptyProduct(1))
	ctx := context.Background()

	entry, err := svc.ApplyMovement(ctx, Movement{
		ProductID: 1, Kind: KindIn, Quantity: dec("10"), UnitPrice: dec("5.00"),
	})
	require.NoError(t, err)
	assert.True(t, entry.StockAfter.Equal(dec("10")), "stock after: %s", entry.StockAfter)
	assert.True(t, entry.UnitCostAfter.Equal(dec("5")), "cost after: %s", entry.UnitCostAfter)
	assert.True(t, entry.StockValueAfter.Equal(dec("50")), "value after: %s", entry.StockValueAfter)

	entry, err = svc.ApplyMovement(ctx, Movement{
		ProductID: 1, Kind: KindIn, Quantity: dec("10"), UnitPrice: dec("7.00"),
	})
	require.NoError(t, err)
	assert.True(t, entry.StockAfter.Equal(dec("20")))
	assert.True(t, entry.UnitCostAfter.Equal(dec("6")), "cost after: %s", entry.UnitCostAfter)
	assert.True(t, entry.StockValueAfter.Equal(dec("120")))

	p := fp.byID[1]
	assert.True(t, p.Stock.Equal(dec("20")))
	assert.True(t, p.UnitCost.Equal(dec("6")))
	assert.True(t, p.StockValue.Equal(dec("120")))
}

func TestApplyMovementOutConsumesAtCurrentCost(t *testing.T) {
	svc, fp, _ := newTestService(emptyProduct(1))
	ctx := context.Background()

	_, err := svc.ApplyMovement(ctx, Movement{ProductID: 1, Kind: KindIn, Quantity: dec("20"), UnitPrice: dec("6")})
	require.NoError(t, err)

	entry, err := svc.ApplyMovement(ctx, Movement{ProductID: 1, Kind: KindOut, Quantity: dec("5")})
	require.NoError(t, err)

	// Outbound price is the weighted-average cost, not caller input.
	assert.True(t, entry.UnitPrice.Equal(dec("6")))
	assert.True(t, entry.TotalPrice.Equal(dec("30")))
	assert.True(t, entry.StockAfter.Equal(dec("15")))
	assert.True(t, entry.UnitCostAfter.Equal(dec("6")), "OUT must not move the average")
	assert.True(t, entry.StockValueAfter.Equal(dec("90")))
	assert.True(t, fp.byID[1].StockValue.Equal(dec("90")))
}

func TestApplyMovementFullLiquidationClosesAtZero(t *testing.T) {
	svc, fp, _ := newTestService(emptyProduct(1))
	ctx := context.Background()

	// Odd prices so stock*cost carries rounding residue.
	_, err := svc.ApplyMovement(ctx, Movement{ProductID: 1, Kind: KindIn, Quantity: dec("3"), UnitPrice: dec("0.10")})
	require.NoError(t, err)
	_, err = svc.ApplyMovement(ctx, Movement{ProductID: 1, Kind: KindIn, Quantity: dec("7"), UnitPrice: dec("0.13")})
	require.NoError(t, err)

	entry, err := svc.ApplyMovement(ctx, Movement{ProductID: 1, Kind: KindOut, Quantity: dec("10")})
	require.NoError(t, err)

	assert.True(t, entry.StockAfter.IsZero())
	assert.True(t, entry.UnitCostAfter.IsZero())
	assert.True(t, entry.StockValueAfter.IsZero(), "no residual value after liquidation: %s", entry.StockValueAfter)
	assert.True(t, fp.byID[1].StockValue.IsZero())
}

func TestApplyMovementRejections(t *testing.T) {
	tests := []struct {
		name     string
		movement Movement
		code     string
	}{
		{
			"zero quantity",
			Movement{ProductID: 1, Kind: KindIn, Quantity: decimal.Zero, UnitPrice: dec("5")},
			apperror.CodeInvalidQuantity,
		},
		{
			"negative quantity",
			Movement{ProductID: 1, Kind: KindOut, Quantity: dec("-3")},
			apperror.CodeInvalidQuantity,
		},
		{
			"inbound without price",
			Movement{ProductID: 1, Kind: KindIn, Quantity: dec("5")},
			apperror.CodeMissingUnitPrice,
		},
		{
			"outbound exceeding stock",
			Movement{ProductID: 1, Kind: KindOut, Quantity: dec("100")},
			apperror.CodeInsufficientStock,
		},
		{
			"unknown product",
			Movement{ProductID: 99, Kind: KindIn, Quantity: dec("5"), UnitPrice: dec("5")},
			apperror.CodeProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fp, fe := newTestService(emptyProduct(1))
			_, err := svc.ApplyMovement(context.Background(), tt.movement)

			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)

			// Rejection must leave no trace.
			assert.Empty(t, fe.rows)
			assert.True(t, fp.byID[1].Stock.IsZero())
		})
	}
}

func TestValueConsistencyAcrossManyMovements(t *testing.T) {
	svc, fp, _ := newTestService(emptyProduct(1))
	ctx := context.Background()

	moves := []Movement{
		{ProductID: 1, Kind: KindIn, Quantity: dec("3.5"), UnitPrice: dec("1.07")},
		{ProductID: 1, Kind: KindIn, Quantity: dec("2.25"), UnitPrice: dec("1.13")},
		{ProductID: 1, Kind: KindOut, Quantity: dec("1.75")},
		{ProductID: 1, Kind: KindIn, Quantity: dec("10"), UnitPrice: dec("0.99")},
		{ProductID: 1, Kind: KindOut, Quantity: dec("7.33")},
	}
	for _, m := range moves {
		_, err := svc.ApplyMovement(ctx, m)
		require.NoError(t, err)
	}

	p := fp.byID[1]
	diff := p.StockValue.Sub(p.Stock.Mul(p.UnitCost)).Abs()
	assert.True(t, diff.LessThan(dec("0.01")), "value drift %s", diff)
}

func TestReplayMatchesLiveState(t *testing.T) {
	svc, fp, fe := newTestService(emptyProduct(1))
	ctx := context.Background()

	moves := []Movement{
		{ProductID: 1, Kind: KindIn, Quantity: dec("3"), UnitPrice: dec("0.10")},
		{ProductID: 1, Kind: KindIn, Quantity: dec("7"), UnitPrice: dec("0.13")},
		{ProductID: 1, Kind: KindOut, Quantity: dec("4")},
		{ProductID: 1, Kind: KindIn, Quantity: dec("2.5"), UnitPrice: dec("0.17")},
	}
	for _, m := range moves {
		_, err := svc.ApplyMovement(ctx, m)
		require.NoError(t, err)
	}

	replayed := ReplayState(fe.rows)
	live := fp.byID[1]
	assert.True(t, replayed.Stock.Equal(live.Stock), "stock: %s vs %s", replayed.Stock, live.Stock)
	assert.True(t, replayed.UnitCost.Equal(live.UnitCost), "cost: %s vs %s", replayed.UnitCost, live.UnitCost)
	assert.True(t, replayed.StockValue.Equal(live.StockValue), "value: %s vs %s", replayed.StockValue, live.StockValue)
}

func TestListOutboundValidatesPeriod(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListOutbound(context.Background(), period.Period{Year: 2025, Month: 13})
	require.Error(t, err)
}
