package internal

import (
	"fmt"
	"time"

	specs "github.com/chrisconley/retailrfm/specs"
)

// Segment implements specs.Segment.
func Segment(customers []specs.CustomerAggregateSpec) (specs.RFMResultSpec, error) {
	aggregates := make([]CustomerAggregate, len(customers))
	for i, spec := range customers {
		c, err := NewCustomerAggregateFromSpec(spec)
		if err != nil {
			return specs.RFMResultSpec{}, fmt.Errorf("invalid customer at index %d: %w", i, err)
		}
		aggregates[i] = c
	}

	return segment(aggregates).ToSpec(), nil
}

// ValueSegment is the three-tier label derived from an RFM score.
type ValueSegment string

const (
	HighValue   ValueSegment = specs.SegmentHigh
	MediumValue ValueSegment = specs.SegmentMedium
	LowValue    ValueSegment = specs.SegmentLow
)

// segmentOrder is the reporting order of segment summaries.
var segmentOrder = []ValueSegment{HighValue, MediumValue, LowValue}

// SegmentFromScore maps 3 to High, 2 to Medium and anything lower to Low.
func SegmentFromScore(score int) ValueSegment {
	switch {
	case score >= 3:
		return HighValue
	case score == 2:
		return MediumValue
	default:
		return LowValue
	}
}

// RFMThresholds are the population medians scores are computed against.
type RFMThresholds struct {
	Recency   Decimal
	Frequency Decimal
	Monetary  Decimal
}

// Score counts the metrics at or better than their median. Lower recency is
// better.
func (t RFMThresholds) Score(recency, frequency int, monetary Decimal) int {
	score := 0
	if NewDecimalFromInt64(int64(recency)).Cmp(t.Recency) <= 0 {
		score++
	}
	if NewDecimalFromInt64(int64(frequency)).Cmp(t.Frequency) >= 0 {
		score++
	}
	if monetary.Cmp(t.Monetary) >= 0 {
		score++
	}
	return score
}

type RFMRecord struct {
	Customer  CustomerAggregate
	Recency   int
	Frequency int
	Score     int
	Segment   ValueSegment
}

func (r RFMRecord) ToSpec() specs.RFMRecordSpec {
	return specs.RFMRecordSpec{
		CustomerID:    r.Customer.CustomerID.ToString(),
		Recency:       r.Recency,
		Frequency:     r.Frequency,
		Monetary:      r.Customer.Monetary.String(),
		Score:         r.Score,
		Segment:       string(r.Segment),
		FirstPurchase: r.Customer.FirstPurchase,
		LastPurchase:  r.Customer.LastPurchase,
	}
}

type SegmentSummary struct {
	Segment       ValueSegment
	Customers     int
	MeanRecency   float64
	MeanFrequency float64
	TotalMonetary Decimal
}

func (s SegmentSummary) MeanMonetary() Decimal {
	return s.TotalMonetary.Div(NewDecimalFromInt64(int64(s.Customers)))
}

func (s SegmentSummary) ToSpec() specs.SegmentSummarySpec {
	return specs.SegmentSummarySpec{
		Segment:       string(s.Segment),
		Customers:     s.Customers,
		MeanRecency:   s.MeanRecency,
		MeanFrequency: s.MeanFrequency,
		MeanMonetary:  s.MeanMonetary().String(),
		TotalMonetary: s.TotalMonetary.String(),
	}
}

type RFMResult struct {
	Records       []RFMRecord
	Thresholds    RFMThresholds
	Segments      []SegmentSummary
	ReferenceTime time.Time
}

func (r RFMResult) ToSpec() specs.RFMResultSpec {
	records := make([]specs.RFMRecordSpec, len(r.Records))
	for i, rec := range r.Records {
		records[i] = rec.ToSpec()
	}
	segments := make([]specs.SegmentSummarySpec, len(r.Segments))
	for i, s := range r.Segments {
		segments[i] = s.ToSpec()
	}
	return specs.RFMResultSpec{
		Records: records,
		Thresholds: specs.RFMThresholdsSpec{
			Recency:   r.Thresholds.Recency.String(),
			Frequency: r.Thresholds.Frequency.String(),
			Monetary:  r.Thresholds.Monetary.String(),
		},
		Segments:      segments,
		ReferenceTime: r.ReferenceTime,
	}
}

// RecencyDays is the whole number of days from last to reference, floored.
func RecencyDays(reference, last time.Time) int {
	return int(reference.Sub(last) / (24 * time.Hour))
}

// segment scores every customer against the population medians. No customers
// yields an empty result.
func segment(customers []CustomerAggregate) RFMResult {
	if len(customers) == 0 {
		return RFMResult{Records: []RFMRecord{}, Segments: []SegmentSummary{}}
	}

	reference := customers[0].LastPurchase
	for _, c := range customers[1:] {
		if c.LastPurchase.After(reference) {
			reference = c.LastPurchase
		}
	}

	recencies := make([]Decimal, len(customers))
	frequencies := make([]Decimal, len(customers))
	monetaries := make([]Decimal, len(customers))
	records := make([]RFMRecord, len(customers))
	for i, c := range customers {
		records[i] = RFMRecord{
			Customer:  c,
			Recency:   RecencyDays(reference, c.LastPurchase),
			Frequency: c.Invoices,
		}
		recencies[i] = NewDecimalFromInt64(int64(records[i].Recency))
		frequencies[i] = NewDecimalFromInt64(int64(records[i].Frequency))
		monetaries[i] = c.Monetary
	}

	thresholds := RFMThresholds{
		Recency:   medianDecimal(recencies),
		Frequency: medianDecimal(frequencies),
		Monetary:  medianDecimal(monetaries),
	}
	for i := range records {
		records[i].Score = thresholds.Score(records[i].Recency, records[i].Frequency, records[i].Customer.Monetary)
		records[i].Segment = SegmentFromScore(records[i].Score)
	}

	return RFMResult{
		Records:       records,
		Thresholds:    thresholds,
		Segments:      summarizeSegments(records),
		ReferenceTime: reference,
	}
}

func summarizeSegments(records []RFMRecord) []SegmentSummary {
	type rollup struct {
		customers int
		recency   int
		frequency int
		monetary  Decimal
	}
	rollups := make(map[ValueSegment]*rollup, len(segmentOrder))
	for _, s := range segmentOrder {
		rollups[s] = &rollup{}
	}
	for _, r := range records {
		acc := rollups[r.Segment]
		acc.customers++
		acc.recency += r.Recency
		acc.frequency += r.Frequency
		acc.monetary = acc.monetary.Add(r.Customer.Monetary)
	}

	summaries := make([]SegmentSummary, 0, len(segmentOrder))
	for _, s := range segmentOrder {
		acc := rollups[s]
		if acc.customers == 0 {
			continue
		}
		summaries = append(summaries, SegmentSummary{
			Segment:       s,
			Customers:     acc.customers,
			MeanRecency:   float64(acc.recency) / float64(acc.customers),
			MeanFrequency: float64(acc.frequency) / float64(acc.customers),
			TotalMonetary: acc.monetary,
		})
	}
	return summaries
}
