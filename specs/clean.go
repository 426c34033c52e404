package specs

import "time"

// Clean transforms a raw extract into a cleaned, feature-enriched sales dataset.
//
// Process:
//  1. Check the header carries every required column and at least one row
//  2. Normalize every row into typed fields, marking coercion failures invalid
//  3. Drop rows without a customer or invoice identifier
//  4. Drop exact duplicate rows, keeping the first occurrence
//  5. Mark returns, then drop rows with non-positive or invalid quantity,
//     price or timestamp
//  6. Derive line totals and calendar fields, then flag IQR outliers
//  7. Record a validation summary
//
// Returns the cleaned dataset with one audit entry per stage.
// Returns an error (and no partial output) when the extract is empty or a
// required column is missing.
//
// This is the spec-level interface using only primitive types.
// See internal.Clean for the reference implementation.
type Clean func(extract ExtractSpec, options CleanOptionsSpec) (CleanResultSpec, error)

// CleanOptionsSpec configures optional outputs of a cleaning run.
type CleanOptionsSpec struct {
	// Retain a returns-only view alongside the sales dataset.
	//
	// When true, rows with a negative quantity that survive the identity and
	// duplicate stages are returned in CleanResultSpec.Returns. They never
	// appear in the sales dataset.
	KeepReturns bool `json:"keepReturns"`
}

// CleanResultSpec is the durable output of one cleaning run.
//
// Records and Audit are produced together or not at all. A new run produces a
// fresh result; nothing in a prior result is ever mutated.
type CleanResultSpec struct {
	// The cleaned sales dataset in input order.
	Records []CleanRecordSpec `json:"records"`

	// One entry per pipeline stage, in execution order.
	Audit []AuditEntrySpec `json:"audit"`

	// Whole-run bookkeeping produced by the validation summary stage.
	Summary ValidationSummarySpec `json:"summary"`

	// Returns-only view. Nil unless CleanOptionsSpec.KeepReturns was set.
	Returns []ReturnRecordSpec `json:"returns,omitempty"`
}

// CleanRecordSpec represents one validated, feature-enriched sales line.
//
// Guaranteed: CustomerID and InvoiceNo are non-empty, InvoiceDate is a valid
// instant, Quantity > 0, UnitPrice > 0, and no other record in the same
// dataset is an exact duplicate.
type CleanRecordSpec struct {
	// Invoice identifier.
	InvoiceNo string `json:"invoiceNo"`

	// Stock/product code.
	StockCode string `json:"stockCode"`

	// Product description. May be empty.
	Description string `json:"description"`

	// Quantity as a decimal string. Always positive.
	Quantity string `json:"quantity"`

	// Invoice instant, UTC.
	InvoiceDate time.Time `json:"invoiceDate"`

	// Unit price as a decimal string. Always positive.
	UnitPrice string `json:"unitPrice"`

	// Trimmed customer identifier.
	CustomerID string `json:"customerID"`

	// Country label, passed through unchanged.
	Country string `json:"country"`

	// Quantity × UnitPrice as an exact decimal string. Examples: "15.30", "0.85".
	LineTotal string `json:"lineTotal"`

	// Calendar date of the invoice (YYYY-MM-DD).
	TransactionDate string `json:"transactionDate"`

	// Calendar year of the invoice.
	Year int `json:"year"`

	// Calendar month of the invoice, 1-12.
	Month int `json:"month"`

	// Calendar quarter of the invoice, 1-4.
	Quarter int `json:"quarter"`

	// English weekday name. Examples: "Monday", "Sunday".
	DayOfWeek string `json:"dayOfWeek"`

	// First whitespace-delimited token of Description. Empty when Description is.
	ProductCategory string `json:"productCategory"`

	// Always false on the sales dataset; returns are filtered out before this
	// shape is produced.
	IsReturn bool `json:"isReturn"`

	// True when LineTotal lies outside [Q1 - 3·IQR, Q3 + 3·IQR] of the dataset.
	// Informational only; flagged rows stay in the dataset.
	IsOutlier bool `json:"isOutlier"`
}

// ReturnRecordSpec represents one line of the optional returns-only view.
type ReturnRecordSpec struct {
	InvoiceNo   string `json:"invoiceNo"`
	StockCode   string `json:"stockCode"`
	Description string `json:"description"`

	// Quantity as a decimal string. Always negative.
	Quantity string `json:"quantity"`

	// Unit price as a decimal string, or the raw text when it was malformed.
	UnitPrice string `json:"unitPrice"`

	CustomerID string `json:"customerID"`
	Country    string `json:"country"`

	// Invoice instant. Zero when the raw timestamp was malformed.
	InvoiceDate time.Time `json:"invoiceDate"`
}
