package internal

import (
	"fmt"
	"strings"
	"time"
)

// DerivedFeatures are the per-row columns computed from a record that passed
// the identity, duplicate and validity stages.
type DerivedFeatures struct {
	LineTotal       Decimal
	TransactionDate time.Time
	Year            int
	Month           int
	Quarter         int
	DayOfWeek       time.Weekday
	Category        string
}

// DeriveFeatures is a pure function of one record. It requires a valid
// quantity, unit price and timestamp; line totals are not rounded.
func DeriveFeatures(r ValidatedRecord) (DerivedFeatures, error) {
	quantity, ok := r.Quantity.Value()
	if !ok {
		return DerivedFeatures{}, fmt.Errorf("cannot derive features: quantity %q is invalid", r.Quantity.Raw())
	}
	price, ok := r.UnitPrice.Value()
	if !ok {
		return DerivedFeatures{}, fmt.Errorf("cannot derive features: unit price %q is invalid", r.UnitPrice.Raw())
	}
	ts, ok := r.InvoiceDate.Value()
	if !ok {
		return DerivedFeatures{}, fmt.Errorf("cannot derive features: timestamp %q is invalid", r.InvoiceDate.Raw())
	}

	month := int(ts.Month())
	return DerivedFeatures{
		LineTotal:       quantity.Mul(price),
		TransactionDate: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		Year:            ts.Year(),
		Month:           month,
		Quarter:         QuarterOf(month),
		DayOfWeek:       ts.Weekday(),
		Category:        ProductCategory(r.Description),
	}, nil
}

// QuarterOf maps a month 1-12 to its quarter 1-4.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}

// ProductCategory is the first whitespace-delimited token of a description.
func ProductCategory(description string) string {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
