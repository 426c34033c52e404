package internal

import (
	"time"

	specs "github.com/chrisconley/retailrfm/specs"
)

// row builds one extract row in specs.RequiredColumns order.
func row(invoice, stock, description, quantity, date, price, customer, country string) []string {
	return []string{invoice, stock, description, quantity, date, price, customer, country}
}

func extractOf(rows ...[]string) specs.ExtractSpec {
	columns := make([]string, len(specs.RequiredColumns))
	copy(columns, specs.RequiredColumns)
	return specs.ExtractSpec{Columns: columns, Rows: rows}
}

func saleRow(invoice, customer, quantity, price, date string) []string {
	return row(invoice, "85123A", "WHITE HANGING HEART", quantity, date, price, customer, "United Kingdom")
}

func cleanRecord(invoice, customer, quantity, price string, at time.Time) CleanRecord {
	q, _ := NewDecimal(quantity)
	p, _ := NewDecimal(price)
	validated := ValidatedRecord{
		InvoiceID:   NewInvoiceID(invoice),
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART",
		Quantity:    NewValidNumericField(q),
		UnitPrice:   NewValidNumericField(p),
		InvoiceDate: NewValidInvoiceTimestamp(at),
		CustomerID:  NewCustomerID(customer),
		Country:     "United Kingdom",
	}
	features, err := DeriveFeatures(validated)
	if err != nil {
		panic(err)
	}
	record, err := NewCleanRecord(validated, features, false)
	if err != nil {
		panic(err)
	}
	return record
}

func day(n int) time.Time {
	return time.Date(2011, 12, 9, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
}
