package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/period"
	"stockbook/internal/domain/product"
	"stockbook/internal/domain/snapshot"
)

// --- fakes ---

type fakeLedger struct {
	rows []ledger.Entry
}

func (f *fakeLedger) MonthlyActivity(_ context.Context, from, to time.Time) (map[int64]ledger.ProductActivity, error) {
	acts := make(map[int64]ledger.ProductActivity)
	for _, e := range f.rows {
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		a := acts[e.ProductID]
		a.ProductID = e.ProductID
		a.MovementCount++
		if e.Kind == ledger.KindIn {
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

func (f *fakeLedger) ListForProductBefore(_ context.Context, productID int64, before time.Time) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range f.rows {
		if e.ProductID == productID && e.CreatedAt.Before(before) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSnapshots struct {
	rows []snapshot.Snapshot
}

func (f *fakeSnapshots) ListMonth(_ context.Context, year, month int) ([]snapshot.Snapshot, error) {
	var out []snapshot.Snapshot
	for _, r := range f.rows {
		if r.Year == year && r.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeProducts struct {
	byID map[int64]*product.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewProductNotFound(id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) ListRefs(context.Context) (map[int64]product.Ref, error) {
	refs := make(map[int64]product.Ref)
	for id, p := range f.byID {
		refs[id] = product.Ref{ID: id, Name: p.Name, Barcode: p.Barcode, CategoryID: p.CategoryID}
	}
	return refs, nil
}

type fakeCategories struct {
	cats []catalog.Category
}

func (f *fakeCategories) ListCategories(context.Context) ([]catalog.Category, error) {
	return f.cats, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func snapRow(year, month int, productID int64, stock, cost, value string) snapshot.Snapshot {
	return snapshot.Snapshot{
		Year: year, Month: month, ProductID: productID,
		ClosingStock: dec(stock), ClosingCost: dec(cost), ClosingValue: dec(value),
	}
}

type builderFixture struct {
	ledger    *fakeLedger
	snapshots *fakeSnapshots
	products  *fakeProducts
	builder   *Builder
}

func newFixture(now time.Time) *builderFixture {
	catID := int64(3)
	f := &builderFixture{
		ledger:    &fakeLedger{},
		snapshots: &fakeSnapshots{},
		products: &fakeProducts{byID: map[int64]*product.Product{
			1: {ID: 1, Name: "Bolt M6", Barcode: "100001", CategoryID: &catID},
			2: {ID: 2, Name: "Nut M6", Barcode: "100002"},
		}},
	}
	f.builder = NewBuilder(f.ledger, f.snapshots, f.products, &fakeCategories{cats: []catalog.Category{
		{ID: 3, Name: "Fasteners"},
		{ID: 4, Name: "Paint"},
	}})
	f.builder.now = func() time.Time { return now }
	return f
}

func findRow(t *testing.T, ml *MonthlyLedger, productID int64) ProductRow {
	t.Helper()
	for _, c := range ml.Categories {
		for _, r := range c.Products {
			if r.ProductID == productID {
				return r
			}
		}
	}
	t.Fatalf("product %d not in report", productID)
	return ProductRow{}
}

// --- tests ---

func TestOpeningFromPriorSnapshot(t *testing.T) {
	f := newFixture(day(2025, 9, 15))
	f.snapshots.rows = []snapshot.Snapshot{
		snapRow(2025, 6, 1, "15", "6", "90"),
		snapRow(2025, 7, 1, "20", "6.5", "130"),
	}

	ml, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 7})
	require.NoError(t, err)

	row := findRow(t, ml, 1)
	assert.True(t, row.OpeningStock.Equal(dec("15")))
	assert.True(t, row.OpeningCost.Equal(dec("6")))
	assert.True(t, row.OpeningValue.Equal(dec("90")))
	assert.True(t, row.ClosingStock.Equal(dec("20")))
	assert.True(t, row.ClosingValue.Equal(dec("130")))
}

func TestOpeningFallsBackToReplay(t *testing.T) {
	f := newFixture(day(2025, 9, 15))
	// No snapshots at all; history establishes the opening state.
	f.ledger.rows = []ledger.Entry{
		{ProductID: 1, Kind: ledger.KindIn, Quantity: dec("10"), UnitPrice: dec("5"), TotalPrice: dec("50"), CreatedAt: day(2025, 6, 10)},
		{ProductID: 1, Kind: ledger.KindOut, Quantity: dec("4"), UnitPrice: dec("5"), TotalPrice: dec("20"), CreatedAt: day(2025, 7, 12)},
	}

	ml, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 7})
	require.NoError(t, err)

	row := findRow(t, ml, 1)
	assert.True(t, row.OpeningStock.Equal(dec("10")), "opening stock: %s", row.OpeningStock)
	assert.True(t, row.OpeningValue.Equal(dec("50")))
	assert.True(t, row.ClosingStock.Equal(dec("6")), "closing stock: %s", row.ClosingStock)
	assert.True(t, row.ClosingValue.Equal(dec("30")))
	assert.Equal(t, 1, row.MovementCount)
	assert.True(t, row.NetValue.Equal(dec("-20")))
}

func TestClosingFromLiveStateForCurrentMonth(t *testing.T) {
	f := newFixture(day(2025, 7, 20))
	f.products.byID[1].Stock = dec("42")
	f.products.byID[1].UnitCost = dec("2")
	f.products.byID[1].StockValue = dec("84")
	f.ledger.rows = []ledger.Entry{
		{ProductID: 1, Kind: ledger.KindIn, Quantity: dec("42"), UnitPrice: dec("2"), TotalPrice: dec("84"), CreatedAt: day(2025, 7, 5)},
	}

	ml, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 7})
	require.NoError(t, err)

	row := findRow(t, ml, 1)
	assert.True(t, row.ClosingStock.Equal(dec("42")))
	assert.True(t, row.ClosingValue.Equal(dec("84")))
}

func TestAllCategoriesListedEvenWhenEmpty(t *testing.T) {
	f := newFixture(day(2025, 9, 15))
	f.snapshots.rows = []snapshot.Snapshot{
		snapRow(2025, 6, 2, "4", "2.5", "10"), // uncategorized product
	}

	ml, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 7})
	require.NoError(t, err)

	require.Len(t, ml.Categories, 3)
	assert.Equal(t, "Fasteners", ml.Categories[0].CategoryName)
	assert.Empty(t, ml.Categories[0].Products)
	assert.Equal(t, "Paint", ml.Categories[1].CategoryName)
	assert.Equal(t, "Uncategorized", ml.Categories[2].CategoryName)
	assert.Len(t, ml.Categories[2].Products, 1)
}

func TestSummaryTotals(t *testing.T) {
	f := newFixture(day(2025, 9, 15))
	f.snapshots.rows = []snapshot.Snapshot{
		snapRow(2025, 6, 1, "10", "5", "50"),
		snapRow(2025, 7, 1, "14", "5.5", "77"),
		snapRow(2025, 6, 2, "4", "2.5", "10"),
		snapRow(2025, 7, 2, "2", "2.5", "5"),
	}
	f.ledger.rows = []ledger.Entry{
		{ProductID: 1, Kind: ledger.KindIn, Quantity: dec("4"), UnitPrice: dec("6.75"), TotalPrice: dec("27"), CreatedAt: day(2025, 7, 10)},
		{ProductID: 2, Kind: ledger.KindOut, Quantity: dec("2"), UnitPrice: dec("2.5"), TotalPrice: dec("5"), CreatedAt: day(2025, 7, 11)},
	}

	ml, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 7})
	require.NoError(t, err)

	assert.True(t, ml.Summary.OpeningValue.Equal(dec("60")))
	assert.True(t, ml.Summary.ClosingValue.Equal(dec("82")))
	assert.True(t, ml.Summary.InValue.Equal(dec("27")))
	assert.True(t, ml.Summary.OutValue.Equal(dec("5")))
	assert.True(t, ml.Summary.NetValue.Equal(dec("22")))
	assert.Equal(t, 2, ml.Summary.MovementCount)
	assert.Equal(t, 2, ml.Summary.ProductCount)
}

func TestInvalidPeriodRejected(t *testing.T) {
	f := newFixture(day(2025, 9, 15))

	_, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 13})
	require.Error(t, err)
}

func TestIdleProductsExcluded(t *testing.T) {
	f := newFixture(day(2025, 9, 15))
	// Liquidated in June, no July activity: zero opening, zero closing.
	f.snapshots.rows = []snapshot.Snapshot{
		snapRow(2025, 6, 1, "0", "0", "0"),
	}

	ml, err := f.builder.BuildMonthlyLedger(context.Background(), period.Period{Year: 2025, Month: 7})
	require.NoError(t, err)

	assert.Equal(t, 0, ml.Summary.ProductCount)
	for _, c := range ml.Categories {
		assert.Empty(t, c.Products)
	}
}
