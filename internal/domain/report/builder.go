package report

import (
	"context"
	"sort"
	"time"

	"stockbook/internal/core/money"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/period"
	"stockbook/internal/domain/product"
	"stockbook/internal/domain/snapshot"
)

// LedgerSource is the slice of the ledger the builder reads.
type LedgerSource interface {
	MonthlyActivity(ctx context.Context, from, to time.Time) (map[int64]ledger.ProductActivity, error)
	ListForProductBefore(ctx context.Context, productID int64, before time.Time) ([]ledger.Entry, error)
}

// SnapshotSource resolves materialized monthly balances.
type SnapshotSource interface {
	ListMonth(ctx context.Context, year, month int) ([]snapshot.Snapshot, error)
}

// ProductSource resolves live product state and refs.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	ListRefs(ctx context.Context) (map[int64]product.Ref, error)
}

// CategorySource lists the category dimension.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// Builder assembles monthly ledger reports. Opening balances come from
// the prior month's snapshot when present, else from historical replay.
// Closing balances come from live product state for the current
// calendar month (which has no snapshot yet), else from the month's
// snapshot, again falling back to replay.
type Builder struct {
	entries    LedgerSource
	snapshots  SnapshotSource
	products   ProductSource
	categories CategorySource
	now        func() time.Time
}

// NewBuilder creates a report builder.
func NewBuilder(entries LedgerSource, snapshots SnapshotSource, products ProductSource, categories CategorySource) *Builder {
	return &Builder{
		entries:    entries,
		snapshots:  snapshots,
		products:   products,
		categories: categories,
		now:        time.Now,
	}
}

// BuildMonthlyLedger assembles the report for one month.
func (b *Builder) BuildMonthlyLedger(ctx context.Context, p period.Period) (*MonthlyLedger, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	isCurrent := period.Of(b.now()) == p

	activity, err := b.entries.MonthlyActivity(ctx, p.Start(), p.End())
	if err != nil {
		return nil, err
	}

	prior := p.Prev()
	openRows, err := b.snapshots.ListMonth(ctx, prior.Year, prior.Month)
	if err != nil {
		return nil, err
	}
	openSnaps := indexByProduct(openRows)

	var closeSnaps map[int64]snapshot.Snapshot
	if !isCurrent {
		closeRows, err := b.snapshots.ListMonth(ctx, p.Year, p.Month)
		if err != nil {
			return nil, err
		}
		closeSnaps = indexByProduct(closeRows)
	}

	refs, err := b.products.ListRefs(ctx)
	if err != nil {
		return nil, err
	}

	candidates := candidateIDs(activity, openSnaps, closeSnaps)

	var rows []ProductRow
	for _, id := range candidates {
		ref, ok := refs[id]
		if !ok {
			continue
		}

		opening, err := b.openingState(ctx, p, id, openSnaps)
		if err != nil {
			return nil, err
		}
		closing, err := b.closingState(ctx, p, id, isCurrent, closeSnaps)
		if err != nil {
			return nil, err
		}
		act := activity[id]

		row := ProductRow{
			ProductID:     id,
			ProductName:   ref.Name,
			Barcode:       ref.Barcode,
			OpeningStock:  opening.Stock,
			OpeningCost:   opening.UnitCost,
			OpeningValue:  opening.StockValue,
			InQty:         act.InQty,
			OutQty:        act.OutQty,
			InValue:       act.InValue,
			OutValue:      act.OutValue,
			NetValue:      money.ToStored(money.Sub(act.InValue, act.OutValue)),
			ClosingStock:  closing.Stock,
			ClosingCost:   closing.UnitCost,
			ClosingValue:  closing.StockValue,
			MovementCount: act.MovementCount,
		}
		if row.MovementCount == 0 && row.OpeningStock.IsZero() && row.ClosingStock.IsZero() {
			continue
		}
		rows = append(rows, row)
	}

	return b.assemble(ctx, p, rows, refs)
}

// openingState resolves a product's state at month start: prior
// snapshot, else historical replay (which yields zero for an empty
// history).
func (b *Builder) openingState(ctx context.Context, p period.Period, productID int64, openSnaps map[int64]snapshot.Snapshot) (product.CostState, error) {
	if s, ok := openSnaps[productID]; ok {
		return product.CostState{Stock: s.ClosingStock, UnitCost: s.ClosingCost, StockValue: s.ClosingValue}, nil
	}
	history, err := b.entries.ListForProductBefore(ctx, productID, p.Start())
	if err != nil {
		return product.CostState{}, err
	}
	return ledger.ReplayState(history), nil
}

// closingState resolves a product's state at month end.
func (b *Builder) closingState(ctx context.Context, p period.Period, productID int64, isCurrent bool, closeSnaps map[int64]snapshot.Snapshot) (product.CostState, error) {
	if isCurrent {
		prod, err := b.products.GetByID(ctx, productID)
		if err != nil {
			return product.CostState{}, err
		}
		return prod.CostState(), nil
	}
	if s, ok := closeSnaps[productID]; ok {
		return product.CostState{Stock: s.ClosingStock, UnitCost: s.ClosingCost, StockValue: s.ClosingValue}, nil
	}
	history, err := b.entries.ListForProductBefore(ctx, productID, p.End())
	if err != nil {
		return product.CostState{}, err
	}
	return ledger.ReplayState(history), nil
}

// assemble groups rows by category. Every category appears, empty or
// not; products without a category fall into an extra block.
func (b *Builder) assemble(ctx context.Context, p period.Period, rows []ProductRow, refs map[int64]product.Ref) (*MonthlyLedger, error) {
	cats, err := b.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]CategoryBlock, 0, len(cats)+1)
	index := make(map[int64]int)
	for _, c := range cats {
		c := c
		index[c.ID] = len(blocks)
		blocks = append(blocks, CategoryBlock{CategoryID: &c.ID, CategoryName: c.Name})
	}
	uncat := CategoryBlock{CategoryName: "Uncategorized"}

	report := &MonthlyLedger{Year: p.Year, Month: p.Month}
	for _, row := range rows {
		ref := refs[row.ProductID]
		var block *CategoryBlock
		if ref.CategoryID != nil {
			if i, ok := index[*ref.CategoryID]; ok {
				block = &blocks[i]
			}
		}
		if block == nil {
			block = &uncat
		}
		block.Products = append(block.Products, row)
		block.OpeningValue = money.ToStored(money.Add(block.OpeningValue, row.OpeningValue))
		block.ClosingValue = money.ToStored(money.Add(block.ClosingValue, row.ClosingValue))
		block.NetValue = money.ToStored(money.Add(block.NetValue, row.NetValue))

		report.Summary.OpeningValue = money.ToStored(money.Add(report.Summary.OpeningValue, row.OpeningValue))
		report.Summary.ClosingValue = money.ToStored(money.Add(report.Summary.ClosingValue, row.ClosingValue))
		report.Summary.InValue = money.ToStored(money.Add(report.Summary.InValue, row.InValue))
		report.Summary.OutValue = money.ToStored(money.Add(report.Summary.OutValue, row.OutValue))
		report.Summary.MovementCount += row.MovementCount
		report.Summary.ProductCount++
	}
	report.Summary.NetValue = money.ToStored(money.Sub(report.Summary.InValue, report.Summary.OutValue))

	for i := range blocks {
		sortRows(blocks[i].Products)
	}
	sortRows(uncat.Products)
	if len(uncat.Products) > 0 {
		blocks = append(blocks, uncat)
	}
	report.Categories = blocks

	return report, nil
}

func sortRows(rows []ProductRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductName < rows[j].ProductName })
}

func indexByProduct(rows []snapshot.Snapshot) map[int64]snapshot.Snapshot {
	m := make(map[int64]snapshot.Snapshot, len(rows))
	for _, r := range rows {
		m[r.ProductID] = r
	}
	return m
}

// candidateIDs unions the product ids seen in month activity, the
// prior snapshot and the closing snapshot, sorted for stable output.
func candidateIDs(activity map[int64]ledger.ProductActivity, openSnaps, closeSnaps map[int64]snapshot.Snapshot) []int64 {
	seen := make(map[int64]struct{})
	for id := range activity {
		seen[id] = struct{}{}
	}
	for id := range openSnaps {
		seen[id] = struct{}{}
	}
	for id := range closeSnaps {
		seen[id] = struct{}{}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
