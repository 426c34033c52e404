package internal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	specs "github.com/chrisconley/retailrfm/specs"
)

// GroupBy implements specs.GroupBy on a single worker.
func GroupBy(records []specs.CleanRecordSpec, dimension string) ([]specs.GroupAggregateSpec, error) {
	dim, err := NewDimension(dimension)
	if err != nil {
		return nil, err
	}
	cleanRecords, err := NewCleanRecordsFromSpecs(records)
	if err != nil {
		return nil, err
	}

	groups := groupBy(cleanRecords, dim)

	result := make([]specs.GroupAggregateSpec, len(groups))
	for i, g := range groups {
		result[i] = g.ToSpec()
	}
	return result, nil
}

// GroupAggregate holds the exact totals of one group. Only groups with at
// least one row are ever built, so Rows > 0.
type GroupAggregate struct {
	Dimension     Dimension
	Key           string
	Revenue       Decimal
	Quantity      Decimal
	Rows          int
	Invoices      int
	FirstPurchase time.Time
	LastPurchase  time.Time
}

func (g GroupAggregate) MeanLineTotal() Decimal {
	return g.Revenue.Div(NewDecimalFromInt64(int64(g.Rows)))
}

func (g GroupAggregate) ToSpec() specs.GroupAggregateSpec {
	return specs.GroupAggregateSpec{
		Dimension:        g.Dimension.ToString(),
		Key:              g.Key,
		Revenue:          g.Revenue.String(),
		MeanLineTotal:    g.MeanLineTotal().String(),
		Rows:             g.Rows,
		DistinctInvoices: g.Invoices,
		Quantity:         g.Quantity.String(),
	}
}

// GroupByParallel splits records into contiguous ranges, aggregates each range
// on its own goroutine, and merges the partials in range order. The result is
// identical to the single-worker one, including group order.
func GroupByParallel(ctx context.Context, records []CleanRecord, dim Dimension, workers int) ([]GroupAggregate, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", workers)
	}
	ranges := partitionRanges(len(records), workers)
	partials := make([]*groupPartial, len(ranges))

	g, ctx := errgroup.WithContext(ctx)
	for i, rg := range ranges {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[i] = accumulate(records[rg[0]:rg[1]], dim)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergePartials(partials).groups(dim), nil
}

func groupBy(records []CleanRecord, dim Dimension) []GroupAggregate {
	return accumulate(records, dim).groups(dim)
}

// partitionRanges returns at most parts non-empty [start, end) ranges covering n.
func partitionRanges(n, parts int) [][2]int {
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}
	size := (n + parts - 1) / parts
	ranges := make([][2]int, 0, parts)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

type groupAccumulator struct {
	revenue  Decimal
	quantity Decimal
	rows     int
	invoices map[string]struct{}
	first    time.Time
	last     time.Time
}

func (a *groupAccumulator) add(r CleanRecord) {
	a.revenue = a.revenue.Add(r.LineTotal())
	a.quantity = a.quantity.Add(r.Quantity)
	a.rows++
	a.invoices[r.InvoiceID.ToString()] = struct{}{}
	if a.first.IsZero() || r.InvoiceDate.Before(a.first) {
		a.first = r.InvoiceDate
	}
	if r.InvoiceDate.After(a.last) {
		a.last = r.InvoiceDate
	}
}

func (a *groupAccumulator) merge(other *groupAccumulator) {
	a.revenue = a.revenue.Add(other.revenue)
	a.quantity = a.quantity.Add(other.quantity)
	a.rows += other.rows
	for invoice := range other.invoices {
		a.invoices[invoice] = struct{}{}
	}
	if a.first.IsZero() || other.first.Before(a.first) {
		a.first = other.first
	}
	if other.last.After(a.last) {
		a.last = other.last
	}
}

// groupPartial is the aggregate of one row range. order lists keys by first
// occurrence within the range.
type groupPartial struct {
	order []string
	byKey map[string]*groupAccumulator
}

func newGroupPartial() *groupPartial {
	return &groupPartial{byKey: make(map[string]*groupAccumulator)}
}

func (p *groupPartial) accumulator(key string) *groupAccumulator {
	acc, ok := p.byKey[key]
	if !ok {
		acc = &groupAccumulator{invoices: make(map[string]struct{})}
		p.byKey[key] = acc
		p.order = append(p.order, key)
	}
	return acc
}

func accumulate(records []CleanRecord, dim Dimension) *groupPartial {
	p := newGroupPartial()
	for _, r := range records {
		p.accumulator(dim.keyOf(r)).add(r)
	}
	return p
}

// mergePartials must receive partials in range order so that first-occurrence
// order survives the merge.
func mergePartials(partials []*groupPartial) *groupPartial {
	merged := newGroupPartial()
	for _, p := range partials {
		for _, key := range p.order {
			merged.accumulator(key).merge(p.byKey[key])
		}
	}
	return merged
}

func (p *groupPartial) groups(dim Dimension) []GroupAggregate {
	result := make([]GroupAggregate, len(p.order))
	for i, key := range p.order {
		acc := p.byKey[key]
		result[i] = GroupAggregate{
			Dimension:     dim,
			Key:           key,
			Revenue:       acc.revenue,
			Quantity:      acc.quantity,
			Rows:          acc.rows,
			Invoices:      len(acc.invoices),
			FirstPurchase: acc.first,
			LastPurchase:  acc.last,
		}
	}
	return result
}

// RankMetric selects what TopN ranks groups by.
type RankMetric string

const (
	RankByRevenue  RankMetric = "revenue"
	RankByQuantity RankMetric = "quantity"
	RankByRows     RankMetric = "rows"
	RankByInvoices RankMetric = "invoices"
)

func (m RankMetric) compare(a, b GroupAggregate) int {
	switch m {
	case RankByQuantity:
		return a.Quantity.Cmp(b.Quantity)
	case RankByRows:
		return compareInts(a.Rows, b.Rows)
	case RankByInvoices:
		return compareInts(a.Invoices, b.Invoices)
	default:
		return a.Revenue.Cmp(b.Revenue)
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// TopN returns the n largest groups by metric, descending. Groups that tie
// keep their first-occurrence order. n <= 0 or n > len(groups) returns every
// group ranked.
func TopN(groups []GroupAggregate, metric RankMetric, n int) []GroupAggregate {
	ranked := make([]GroupAggregate, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric.compare(ranked[i], ranked[j]) > 0
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// RevenueShare is the fraction of total revenue held by the top fraction of
// groups ranked by revenue. At least one group is counted when any exist.
func RevenueShare(groups []GroupAggregate, fraction float64) float64 {
	if len(groups) == 0 {
		return 0
	}
	total := Decimal{}
	for _, g := range groups {
		total = total.Add(g.Revenue)
	}
	if total.Sign() == 0 {
		return 0
	}

	n := max(int(fraction*float64(len(groups))), 1)
	top := Decimal{}
	for _, g := range TopN(groups, RankByRevenue, n) {
		top = top.Add(g.Revenue)
	}
	return top.Div(total).Float64()
}
