package snapshot

import (
	"context"
	"sort"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/money"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/period"
	"stockbook/internal/domain/product"
	"stockbook/pkg/logger"
)

// EntrySource is the slice of the ledger the generator reads.
type EntrySource interface {
	ListBefore(ctx context.Context, before time.Time) ([]ledger.Entry, error)
}

// ProductDirectory resolves product refs for denormalization.
type ProductDirectory interface {
	ListRefs(ctx context.Context) (map[int64]product.Ref, error)
}

// Generator builds monthly snapshots from the ledger. It never reads
// live product cost state: closing balances come from full historical
// replay, so the result is correct even when the live state or earlier
// snapshots have drifted.
type Generator struct {
	entries   EntrySource
	products  ProductDirectory
	snapshots Repository
	tx        tx.Manager
	now       func() time.Time
}

// NewGenerator creates a snapshot generator.
func NewGenerator(entries EntrySource, products ProductDirectory, snapshots Repository, txm tx.Manager) *Generator {
	return &Generator{
		entries:   entries,
		products:  products,
		snapshots: snapshots,
		tx:        txm,
		now:       time.Now,
	}
}

// Generate rebuilds the snapshot for one month inside a single
// transaction: delete existing rows, replay the ledger, insert fresh
// rows. Re-running with an unchanged ledger produces identical values.
func (g *Generator) Generate(ctx context.Context, p period.Period) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var count int
	err := g.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		count, err = g.rebuild(ctx, p)
		return err
	})
	if err != nil {
		return nil, apperror.NewSnapshotFailed(p.Year, p.Month, err)
	}

	logger.Info(ctx, "generated monthly snapshot",
		"period", p.String(),
		"product_count", count,
	)

	return &Result{Year: p.Year, Month: p.Month, ProductCount: count}, nil
}

func (g *Generator) rebuild(ctx context.Context, p period.Period) (int, error) {
	if err := g.snapshots.DeleteMonth(ctx, p.Year, p.Month); err != nil {
		return 0, err
	}

	entries, err := g.entries.ListBefore(ctx, p.End())
	if err != nil {
		return 0, err
	}
	refs, err := g.products.ListRefs(ctx)
	if err != nil {
		return 0, err
	}

	rows := buildRows(p, entries, refs, g.now())
	if len(rows) == 0 {
		return 0, nil
	}

	if err := g.snapshots.InsertBatch(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// buildRows folds the ledger into snapshot rows. Candidates are
// products with activity inside the month or a positive replayed
// closing stock; products with neither are skipped. Products missing
// from the directory (deleted since their last movement) are skipped
// as well.
func buildRows(p period.Period, entries []ledger.Entry, refs map[int64]product.Ref, generatedAt time.Time) []Snapshot {
	grouped := ledger.GroupByProduct(entries)

	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []Snapshot
	for _, id := range ids {
		history := grouped[id]
		closing := ledger.ReplayState(history)
		row := Snapshot{
			Year:         p.Year,
			Month:        p.Month,
			ProductID:    id,
			ClosingStock: closing.Stock,
			ClosingCost:  closing.UnitCost,
			ClosingValue: closing.StockValue,
			CreatedAt:    generatedAt,
		}

		for _, e := range history {
			if !p.Contains(e.CreatedAt) {
				continue
			}
			row.MovementCount++
			if e.Kind == ledger.KindIn {
				row.InQty = money.ToStored(money.Add(row.InQty, e.Quantity))
				row.InValue = money.ToStored(money.Add(row.InValue, e.TotalPrice))
			} else {
				row.OutQty = money.ToStored(money.Add(row.OutQty, e.Quantity))
				row.OutValue = money.ToStored(money.Add(row.OutValue, e.TotalPrice))
			}
		}
		row.NetQty = money.ToStored(money.Sub(row.InQty, row.OutQty))
		row.NetValue = money.ToStored(money.Sub(row.InValue, row.OutValue))

		if row.MovementCount == 0 && !row.ClosingStock.IsPositive() {
			continue
		}

		ref, ok := refs[id]
		if !ok {
			continue
		}
		row.ProductName = ref.Name
		row.ProductBarcode = ref.Barcode
		row.CategoryID = ref.CategoryID
		row.CategoryName = ref.CategoryName

		rows = append(rows, row)
	}

	return rows
}

// RangeResult reports one month's outcome of a range generation.
type RangeResult struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	ProductCount int    `json:"product_count"`
	Error        string `json:"error,omitempty"`
}

// GenerateRange regenerates snapshots for every month in [from, to],
// one transaction per month. A failing month is reported and does not
// stop the rest; used for historical catch-up.
func (g *Generator) GenerateRange(ctx context.Context, from, to period.Period) ([]RangeResult, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperror.NewValidation("range end precedes range start")
	}

	var results []RangeResult
	for p := from; !to.Before(p); p = p.Next() {
		res, err := g.Generate(ctx, p)
		if err != nil {
			logger.Warn(ctx, "snapshot generation failed for month",
				"period", p.String(),
				"error", err,
			)
			results = append(results, RangeResult{Year: p.Year, Month: p.Month, Error: err.Error()})
			continue
		}
		results = append(results, RangeResult{Year: p.Year, Month: p.Month, ProductCount: res.ProductCount})
	}

	return results, nil
}

// ListMonths returns per-month stats for all generated snapshots.
func (g *Generator) ListMonths(ctx context.Context) ([]MonthStats, error) {
	return g.snapshots.MonthStats(ctx)
}

// Detail returns one month's snapshot rows grouped by category.
func (g *Generator) Detail(ctx context.Context, p period.Period) ([]CategoryGroup, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows, err := g.snapshots.ListMonth(ctx, p.Year, p.Month)
	if err != nil {
		return nil, err
	}

	var groups []CategoryGroup
	index := make(map[string]int)
	for _, row := range rows {
		name := "Uncategorized"
		if row.CategoryName != nil {
			name = *row.CategoryName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{CategoryID: row.CategoryID, CategoryName: name})
		}
		groups[i].Products = append(groups[i].Products, row)
		groups[i].TotalValue = money.ToStored(money.Add(groups[i].TotalValue, row.ClosingValue))
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].CategoryName < groups[j].CategoryName })
	return groups, nil
}

// DeleteMonth removes a generated month.
func (g *Generator) DeleteMonth(ctx context.Context, p period.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return g.snapshots.DeleteMonth(ctx, p.Year, p.Month)
}
