package specs

import (
	"fmt"
	"time"
)

// Column names of the raw retail extract.
//
// These are the fixed header names of the positional dataset. They match the
// public "Online Retail" extract layout and are re-used verbatim as the first
// eight columns of the cleaned dataset.
const (
	ColumnInvoiceNo   = "InvoiceNo"
	ColumnStockCode   = "StockCode"
	ColumnDescription = "Description"
	ColumnQuantity    = "Quantity"
	ColumnInvoiceDate = "InvoiceDate"
	ColumnUnitPrice   = "UnitPrice"
	ColumnCustomerID  = "CustomerID"
	ColumnCountry     = "Country"
)

// InvoiceDateLayout is the single accepted timestamp layout (M/D/YYYY h:mm).
// It parses hours with or without a leading zero. Use FormatInvoiceDate to
// write timestamps back out.
const InvoiceDateLayout = "1/2/2006 15:04"

// FormatInvoiceDate renders t as extracts write it, with an unpadded hour:
// "12/1/2010 8:26". Formatting with InvoiceDateLayout would pad it to "08".
func FormatInvoiceDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %d:%02d", int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute())
}

// RequiredColumns lists every column the extract must carry, in canonical order.
var RequiredColumns = []string{
	ColumnInvoiceNo,
	ColumnStockCode,
	ColumnDescription,
	ColumnQuantity,
	ColumnInvoiceDate,
	ColumnUnitPrice,
	ColumnCustomerID,
	ColumnCountry,
}

// ExtractSpec represents the raw transactional extract as a flat table.
//
// The extract is the untrusted input boundary of the system. It is positional:
// Columns names each position and every row holds one string cell per column.
// Cells are kept as text so that malformed values survive until normalization,
// where they are marked invalid instead of failing the run.
type ExtractSpec struct {
	// Header names, one per column position.
	//
	// Must contain every name in RequiredColumns. Order is free and extra
	// columns are ignored.
	Columns []string `json:"columns"`

	// Data rows, one string cell per column.
	//
	// Rows shorter than Columns are treated as having absent values in the
	// missing positions. An empty string cell is an absent value.
	Rows [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (e ExtractSpec) ColumnIndex(name string) int {
	for i, c := range e.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MissingColumns returns the required columns that the header does not carry.
func (e ExtractSpec) MissingColumns() []string {
	var missing []string
	for _, name := range RequiredColumns {
		if e.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// RawRecordSpec represents one line-item transaction as ingested.
//
// Every field is text exactly as read from the extract. No invariants hold:
// any field may be empty, and Quantity, UnitPrice and InvoiceDate may be
// malformed.
type RawRecordSpec struct {
	// Invoice identifier. Empty when absent.
	InvoiceNo string `json:"invoiceNo"`

	// Stock/product code.
	StockCode string `json:"stockCode"`

	// Free-text product description. Empty when absent.
	Description string `json:"description"`

	// Signed quantity as text. Examples: "6", "-12", "abc".
	Quantity string `json:"quantity"`

	// Invoice timestamp as text in InvoiceDateLayout. Example: "12/1/2010 8:26".
	InvoiceDate string `json:"invoiceDate"`

	// Unit price as decimal text. Examples: "2.55", "0", "n/a".
	UnitPrice string `json:"unitPrice"`

	// Customer identifier as text, possibly padded with whitespace.
	CustomerID string `json:"customerID"`

	// Country label. Free text; not checked against any fixed set.
	Country string `json:"country"`
}

// Records returns the extract rows as RawRecordSpecs, addressed by column name.
//
// Returns nil when the extract is missing a required column; callers check
// MissingColumns first.
func (e ExtractSpec) Records() []RawRecordSpec {
	if len(e.MissingColumns()) > 0 {
		return nil
	}

	idx := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		idx[name] = e.ColumnIndex(name)
	}

	cell := func(row []string, name string) string {
		i := idx[name]
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	records := make([]RawRecordSpec, len(e.Rows))
	for i, row := range e.Rows {
		records[i] = RawRecordSpec{
			InvoiceNo:   cell(row, ColumnInvoiceNo),
			StockCode:   cell(row, ColumnStockCode),
			Description: cell(row, ColumnDescription),
			Quantity:    cell(row, ColumnQuantity),
			InvoiceDate: cell(row, ColumnInvoiceDate),
			UnitPrice:   cell(row, ColumnUnitPrice),
			CustomerID:  cell(row, ColumnCustomerID),
			Country:     cell(row, ColumnCountry),
		}
	}
	return records
}
