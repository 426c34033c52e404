package specs

import "time"

// Grouping dimensions understood by GroupBy.
const (
	DimensionCustomer    = "customer"
	DimensionProduct     = "product"
	DimensionDescription = "description"
	DimensionCountry     = "country"
	DimensionYearMonth   = "year-month"
	DimensionMonth       = "month"
	DimensionQuarter     = "quarter"
	DimensionDayOfWeek   = "day-of-week"
	DimensionCategory    = "category"
)

// GroupBy partitions cleaned records by a dimension and aggregates each group.
//
// Groups are returned in order of first occurrence of their key in the input.
// A key with zero rows never appears. Sums are exact decimal sums.
//
// This is the spec-level interface using only primitive types.
// See internal.GroupBy for the reference implementation.
type GroupBy func(records []CleanRecordSpec, dimension string) ([]GroupAggregateSpec, error)

// AggregateCustomers computes one CustomerAggregateSpec per distinct customer.
//
// See internal.AggregateCustomers for the reference implementation.
type AggregateCustomers func(records []CleanRecordSpec) ([]CustomerAggregateSpec, error)

// GroupAggregateSpec holds the aggregates of one group.
type GroupAggregateSpec struct {
	// Dimension the group was keyed on.
	Dimension string `json:"dimension"`

	// Group key rendered as text. Examples: "17850", "United Kingdom", "2011-03".
	Key string `json:"key"`

	// Sum of line totals as a decimal string.
	Revenue string `json:"revenue"`

	// Revenue / Rows as a decimal string.
	MeanLineTotal string `json:"meanLineTotal"`

	// Number of rows in the group. Always positive.
	Rows int `json:"rows"`

	// Number of distinct invoice identifiers in the group.
	DistinctInvoices int `json:"distinctInvoices"`

	// Sum of quantities as a decimal string.
	Quantity string `json:"quantity"`
}

// CustomerAggregateSpec holds the aggregates of one customer.
type CustomerAggregateSpec struct {
	CustomerID string `json:"customerID"`

	// Sum of the customer's line totals as a decimal string.
	Monetary string `json:"monetary"`

	// Number of the customer's rows (line items).
	Transactions int `json:"transactions"`

	// Number of the customer's distinct invoices.
	DistinctInvoices int `json:"distinctInvoices"`

	// Sum of the customer's quantities as a decimal string.
	Quantity string `json:"quantity"`

	// Earliest invoice instant of the customer.
	FirstPurchase time.Time `json:"firstPurchase"`

	// Latest invoice instant of the customer.
	LastPurchase time.Time `json:"lastPurchase"`
}
