package specs

// Summarize computes read-only distribution statistics over a cleaned dataset
// and its segmentation.
//
// No input is mutated. Undefined statistics (skewness of fewer than three
// values, correlation of a constant column, ...) are reported as 0.
//
// See internal.Summarize for the reference implementation.
type Summarize func(records []CleanRecordSpec, rfm RFMResultSpec) (SummarySpec, error)

// Correlated columns, in matrix order.
var CorrelationColumns = []string{ColumnQuantity, ColumnUnitPrice, "TotalSales"}

// DistributionSpec is a flat mapping of metric name to value.
//
// Keys: count, mean, std, min, max, median, skew, kurtosis, p01, p05, p25,
// p50, p75, p95, p99.
type DistributionSpec map[string]float64

// CorrelationMatrixSpec is a square Pearson correlation matrix.
//
// Values[i][j] is the correlation between Columns[i] and Columns[j].
type CorrelationMatrixSpec struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// OverviewSpec holds headline metrics of the cleaned dataset.
type OverviewSpec struct {
	// Sum of all line totals as a decimal string.
	TotalRevenue string `json:"totalRevenue"`

	Customers    int `json:"customers"`
	Products     int `json:"products"`
	Countries    int `json:"countries"`
	Transactions int `json:"transactions"`

	// Mean line total.
	AverageLineValue float64 `json:"averageLineValue"`

	// Share of customers with more than one distinct invoice, 0-1.
	RepeatCustomerRate float64 `json:"repeatCustomerRate"`

	// Share of revenue held by the top 20% of customers by revenue, 0-1.
	TopCustomerRevenueShare float64 `json:"topCustomerRevenueShare"`

	// Highest-revenue country and its share of revenue, 0-1.
	TopCountry      string  `json:"topCountry"`
	TopCountryShare float64 `json:"topCountryShare"`
}

// FrequencyBucketSpec counts customers by number of distinct invoices.
type FrequencyBucketSpec struct {
	// Label such as "1", "2-5", "6-10", "11+".
	Label     string  `json:"label"`
	Customers int     `json:"customers"`
	Share     float64 `json:"share"`
}

// SummarySpec gathers every statistic the report layer formats.
type SummarySpec struct {
	Overview OverviewSpec `json:"overview"`

	// Distribution of line totals.
	LineTotals DistributionSpec `json:"lineTotals"`

	// Distribution of quantities.
	Quantities DistributionSpec `json:"quantities"`

	// Distribution of unit prices.
	UnitPrices DistributionSpec `json:"unitPrices"`

	// Distribution of customer lifetime value (RFM monetary).
	CustomerValue DistributionSpec `json:"customerValue"`

	// Lifetime-value thresholds at p25, p50, p75, p80, p90, p99.
	CustomerValueThresholds DistributionSpec `json:"customerValueThresholds"`

	// Distributions of the RFM metrics.
	Recency   DistributionSpec `json:"recency"`
	Frequency DistributionSpec `json:"frequency"`

	Correlations CorrelationMatrixSpec `json:"correlations"`

	FrequencyBuckets []FrequencyBucketSpec `json:"frequencyBuckets"`
}
