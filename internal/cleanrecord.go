package internal

import (
	"fmt"
	"time"

	specs "github.com/chrisconley/retailrfm/specs"
)

const transactionDateLayout = "2006-01-02"

// CleanRecord is a ValidatedRecord that survived the whole pipeline, with its
// derived features. Only NewCleanRecord constructs one, so every value holds
// the sales invariants.
type CleanRecord struct {
	InvoiceID   InvoiceID
	StockCode   string
	Description string
	Quantity    Decimal
	UnitPrice   Decimal
	InvoiceDate time.Time
	CustomerID  CustomerID
	Country     string
	Features    DerivedFeatures
	IsOutlier   bool
}

func NewCleanRecord(r ValidatedRecord, features DerivedFeatures, outlier bool) (CleanRecord, error) {
	if !r.CustomerID.IsPresent() {
		return CleanRecord{}, fmt.Errorf("customer ID is required")
	}
	if !r.InvoiceID.IsPresent() {
		return CleanRecord{}, fmt.Errorf("invoice ID is required")
	}
	ts, ok := r.InvoiceDate.Value()
	if !ok {
		return CleanRecord{}, fmt.Errorf("invoice date %q is invalid", r.InvoiceDate.Raw())
	}
	if !r.Quantity.IsPositive() {
		return CleanRecord{}, fmt.Errorf("quantity must be positive, got %q", r.Quantity.String())
	}
	if !r.UnitPrice.IsPositive() {
		return CleanRecord{}, fmt.Errorf("unit price must be positive, got %q", r.UnitPrice.String())
	}

	quantity, _ := r.Quantity.Value()
	price, _ := r.UnitPrice.Value()

	return CleanRecord{
		InvoiceID:   r.InvoiceID,
		StockCode:   r.StockCode,
		Description: r.Description,
		Quantity:    quantity,
		UnitPrice:   price,
		InvoiceDate: ts,
		CustomerID:  r.CustomerID,
		Country:     r.Country,
		Features:    features,
		IsOutlier:   outlier,
	}, nil
}

// NewCleanRecordFromSpec rebuilds a CleanRecord from its boundary shape,
// re-deriving features so a tampered spec cannot smuggle in bad totals.
func NewCleanRecordFromSpec(spec specs.CleanRecordSpec) (CleanRecord, error) {
	quantity, err := NewDecimal(spec.Quantity)
	if err != nil {
		return CleanRecord{}, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := NewDecimal(spec.UnitPrice)
	if err != nil {
		return CleanRecord{}, fmt.Errorf("invalid unit price: %w", err)
	}
	if spec.InvoiceDate.IsZero() {
		return CleanRecord{}, fmt.Errorf("invoice date is required")
	}

	validated := ValidatedRecord{
		InvoiceID:   NewInvoiceID(spec.InvoiceNo),
		StockCode:   spec.StockCode,
		Description: spec.Description,
		Quantity:    NewValidNumericField(quantity),
		UnitPrice:   NewValidNumericField(price),
		InvoiceDate: NewValidInvoiceTimestamp(spec.InvoiceDate),
		CustomerID:  NewCustomerID(spec.CustomerID),
		Country:     spec.Country,
	}

	features, err := DeriveFeatures(validated)
	if err != nil {
		return CleanRecord{}, err
	}
	return NewCleanRecord(validated, features, spec.IsOutlier)
}

func NewCleanRecordsFromSpecs(recordSpecs []specs.CleanRecordSpec) ([]CleanRecord, error) {
	records := make([]CleanRecord, len(recordSpecs))
	for i, spec := range recordSpecs {
		record, err := NewCleanRecordFromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid record at index %d: %w", i, err)
		}
		records[i] = record
	}
	return records, nil
}

func (r CleanRecord) LineTotal() Decimal {
	return r.Features.LineTotal
}

func (r CleanRecord) ToSpec() specs.CleanRecordSpec {
	return specs.CleanRecordSpec{
		InvoiceNo:       r.InvoiceID.ToString(),
		StockCode:       r.StockCode,
		Description:     r.Description,
		Quantity:        r.Quantity.String(),
		InvoiceDate:     r.InvoiceDate,
		UnitPrice:       r.UnitPrice.String(),
		CustomerID:      r.CustomerID.ToString(),
		Country:         r.Country,
		LineTotal:       r.Features.LineTotal.String(),
		TransactionDate: r.Features.TransactionDate.Format(transactionDateLayout),
		Year:            r.Features.Year,
		Month:           r.Features.Month,
		Quarter:         r.Features.Quarter,
		DayOfWeek:       r.Features.DayOfWeek.String(),
		ProductCategory: r.Features.Category,
		IsReturn:        false,
		IsOutlier:       r.IsOutlier,
	}
}
