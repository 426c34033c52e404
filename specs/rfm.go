package specs

import "time"

// Segment labels, from most to least valuable.
const (
	SegmentHigh   = "High Value"
	SegmentMedium = "Medium Value"
	SegmentLow    = "Low Value"
)

// Segment scores customers on Recency, Frequency and Monetary value.
//
// Process:
//  1. Take T_max as the latest LastPurchase over all customers
//  2. Recency = whole days between T_max and the customer's LastPurchase
//  3. Frequency = distinct invoices; Monetary = sum of line totals
//  4. Take the population median of each metric
//  5. Score = [Recency ≤ median] + [Frequency ≥ median] + [Monetary ≥ median]
//  6. Score 3 → High Value, 2 → Medium Value, 0-1 → Low Value
//
// Zero customers yields an empty result, not an error.
//
// See internal.Segment for the reference implementation.
type Segment func(customers []CustomerAggregateSpec) (RFMResultSpec, error)

// RFMResultSpec is the output of one segmentation run.
type RFMResultSpec struct {
	// One record per customer, in the order customers were supplied.
	Records []RFMRecordSpec `json:"records"`

	// Median thresholds the scores were computed against.
	Thresholds RFMThresholdsSpec `json:"thresholds"`

	// Per-segment rollups in High, Medium, Low order. Empty segments are omitted.
	Segments []SegmentSummarySpec `json:"segments"`

	// Latest purchase instant over all customers. Zero when there are none.
	ReferenceTime time.Time `json:"referenceTime"`
}

// RFMRecordSpec is a customer aggregate extended with its RFM scoring.
type RFMRecordSpec struct {
	CustomerID string `json:"customerID"`

	// Whole days since the customer's latest purchase, relative to T_max. ≥ 0.
	Recency int `json:"recency"`

	// Count of the customer's distinct invoices.
	Frequency int `json:"frequency"`

	// Sum of the customer's line totals as a decimal string.
	Monetary string `json:"monetary"`

	// Number of metrics at or better than their median, 0-3.
	Score int `json:"score"`

	// One of SegmentHigh, SegmentMedium, SegmentLow.
	Segment string `json:"segment"`

	FirstPurchase time.Time `json:"firstPurchase"`
	LastPurchase  time.Time `json:"lastPurchase"`
}

// RFMThresholdsSpec holds the population medians used for scoring.
//
// Medians are decimal strings because the median of an even-sized population
// is the mean of the two middle values (e.g. recency "15.5").
type RFMThresholdsSpec struct {
	Recency   string `json:"recency"`
	Frequency string `json:"frequency"`
	Monetary  string `json:"monetary"`
}

// SegmentSummarySpec rolls up the customers of one segment.
type SegmentSummarySpec struct {
	Segment       string  `json:"segment"`
	Customers     int     `json:"customers"`
	MeanRecency   float64 `json:"meanRecency"`
	MeanFrequency float64 `json:"meanFrequency"`
	MeanMonetary  string  `json:"meanMonetary"`
	TotalMonetary string  `json:"totalMonetary"`
}
