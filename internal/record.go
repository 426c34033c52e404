package internal

import (
	"strconv"
	"strings"
	"time"

	specs "github.com/chrisconley/retailrfm/specs"
)

// ValidatedRecord is a RawRecord after normalization. Every field has a
// defined present/absent or valid/invalid state; nothing was dropped.
type ValidatedRecord struct {
	InvoiceID   InvoiceID
	StockCode   string
	Description string
	Quantity    NumericField
	UnitPrice   NumericField
	InvoiceDate InvoiceTimestamp
	CustomerID  CustomerID
	Country     string
}

// Normalize coerces one raw record into a ValidatedRecord. It never fails:
// malformed values are marked invalid and handled by later pipeline stages.
func Normalize(raw specs.RawRecordSpec) ValidatedRecord {
	return ValidatedRecord{
		InvoiceID:   NewInvoiceID(raw.InvoiceNo),
		StockCode:   raw.StockCode,
		Description: raw.Description,
		Quantity:    ParseNumericField(raw.Quantity),
		UnitPrice:   ParseNumericField(raw.UnitPrice),
		InvoiceDate: ParseInvoiceTimestamp(raw.InvoiceDate),
		CustomerID:  NewCustomerID(raw.CustomerID),
		Country:     raw.Country,
	}
}

// NormalizeAll normalizes records in input order.
func NormalizeAll(raws []specs.RawRecordSpec) []ValidatedRecord {
	records := make([]ValidatedRecord, len(raws))
	for i, raw := range raws {
		records[i] = Normalize(raw)
	}
	return records
}

// identityKey renders every field in normalized form, each prefixed with its
// byte length so that no field content can shift a boundary. Two records are
// exact duplicates when their identity keys are equal.
func (r ValidatedRecord) identityKey() string {
	fields := [...]string{
		r.InvoiceID.ToString(),
		r.StockCode,
		r.Description,
		r.Quantity.canonical(),
		r.UnitPrice.canonical(),
		r.InvoiceDate.canonical(),
		r.CustomerID.ToString(),
		r.Country,
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
	}
	return b.String()
}

type InvoiceID struct {
	value string
}

func NewInvoiceID(raw string) InvoiceID {
	return InvoiceID{value: strings.TrimSpace(raw)}
}

func (id InvoiceID) IsPresent() bool {
	return id.value != ""
}

func (id InvoiceID) ToString() string {
	return id.value
}

// CustomerID is the trimmed customer identifier. An empty string after
// trimming is absent.
type CustomerID struct {
	value string
}

func NewCustomerID(raw string) CustomerID {
	return CustomerID{value: strings.TrimSpace(raw)}
}

func (id CustomerID) IsPresent() bool {
	return id.value != ""
}

func (id CustomerID) ToString() string {
	return id.value
}

// NumericField is a parsed decimal, or an explicit invalid marker carrying the
// text that failed to parse. Empty text is invalid too.
type NumericField struct {
	value Decimal
	raw   string
	valid bool
}

func ParseNumericField(raw string) NumericField {
	d, err := NewDecimal(raw)
	if err != nil {
		return NumericField{raw: raw}
	}
	return NumericField{value: d, raw: raw, valid: true}
}

func NewValidNumericField(d Decimal) NumericField {
	return NumericField{value: d, raw: d.String(), valid: true}
}

func (f NumericField) IsValid() bool {
	return f.valid
}

// Value returns the decimal and whether it is valid.
func (f NumericField) Value() (Decimal, bool) {
	return f.value, f.valid
}

func (f NumericField) Raw() string {
	return f.raw
}

// IsPositive reports a valid value strictly greater than zero.
func (f NumericField) IsPositive() bool {
	return f.valid && f.value.Sign() > 0
}

// IsNegative reports a valid value strictly less than zero.
func (f NumericField) IsNegative() bool {
	return f.valid && f.value.Sign() < 0
}

// String renders valid values as decimals and invalid ones as their raw text.
func (f NumericField) String() string {
	if f.valid {
		return f.value.String()
	}
	return f.raw
}

func (f NumericField) canonical() string {
	if f.valid {
		return f.value.Canonical()
	}
	return "!" + f.raw
}

// InvoiceTimestamp is an instant parsed from specs.InvoiceDateLayout, or an
// explicit invalid marker carrying the raw text.
type InvoiceTimestamp struct {
	value time.Time
	raw   string
	valid bool
}

func ParseInvoiceTimestamp(raw string) InvoiceTimestamp {
	t, err := time.ParseInLocation(specs.InvoiceDateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return InvoiceTimestamp{raw: raw}
	}
	return InvoiceTimestamp{value: t, raw: raw, valid: true}
}

func NewValidInvoiceTimestamp(t time.Time) InvoiceTimestamp {
	t = t.UTC()
	return InvoiceTimestamp{value: t, raw: specs.FormatInvoiceDate(t), valid: true}
}

func (ts InvoiceTimestamp) IsValid() bool {
	return ts.valid
}

// Value returns the instant and whether it is valid.
func (ts InvoiceTimestamp) Value() (time.Time, bool) {
	return ts.value, ts.valid
}

func (ts InvoiceTimestamp) Raw() string {
	return ts.raw
}

func (ts InvoiceTimestamp) canonical() string {
	if ts.valid {
		return ts.value.Format(time.RFC3339)
	}
	return "!" + ts.raw
}
