package internal

import (
	"fmt"

	specs "github.com/chrisconley/retailrfm/specs"
)

// Clean implements specs.Clean: schema check, normalization, then the five
// ordered stages. Any error leaves no partial output behind.
func Clean(extract specs.ExtractSpec, options specs.CleanOptionsSpec) (specs.CleanResultSpec, error) {
	if missing := extract.MissingColumns(); len(missing) > 0 {
		return specs.CleanResultSpec{}, &SchemaError{Missing: missing}
	}
	if len(extract.Rows) == 0 {
		return specs.CleanResultSpec{}, ErrEmptyInput
	}

	validated := NormalizeAll(extract.Records())

	result, err := clean(validated, CleanOptions{KeepReturns: options.KeepReturns})
	if err != nil {
		return specs.CleanResultSpec{}, err
	}

	return result.ToSpec(), nil
}

// CleanOptions is the domain form of specs.CleanOptionsSpec.
type CleanOptions struct {
	KeepReturns bool
}

// CleanResult is the domain output of one cleaning run.
type CleanResult struct {
	Records []CleanRecord
	Audit   AuditLog
	Summary ValidationSummary
	Returns []ValidatedRecord
}

func (r CleanResult) ToSpec() specs.CleanResultSpec {
	recordSpecs := make([]specs.CleanRecordSpec, len(r.Records))
	for i, record := range r.Records {
		recordSpecs[i] = record.ToSpec()
	}

	var returnSpecs []specs.ReturnRecordSpec
	if r.Returns != nil {
		returnSpecs = make([]specs.ReturnRecordSpec, len(r.Returns))
		for i, ret := range r.Returns {
			returnSpecs[i] = returnToSpec(ret)
		}
	}

	return specs.CleanResultSpec{
		Records: recordSpecs,
		Audit:   r.Audit.ToSpecs(),
		Summary: r.Summary.ToSpec(),
		Returns: returnSpecs,
	}
}

// ValidationSummary is the whole-run bookkeeping recorded by the last stage.
type ValidationSummary struct {
	InitialRows     int
	FinalRows       int
	OutliersFlagged int
	ReturnsMarked   int
}

func (s ValidationSummary) RowsRemoved() int {
	return s.InitialRows - s.FinalRows
}

func (s ValidationSummary) PercentRemoved() float64 {
	return percentOf(s.RowsRemoved(), s.InitialRows)
}

func (s ValidationSummary) ToSpec() specs.ValidationSummarySpec {
	return specs.ValidationSummarySpec{
		InitialRows:     s.InitialRows,
		FinalRows:       s.FinalRows,
		RowsRemoved:     s.RowsRemoved(),
		PercentRemoved:  s.PercentRemoved(),
		OutliersFlagged: s.OutliersFlagged,
		ReturnsMarked:   s.ReturnsMarked,
	}
}

// clean is the private worker behind Clean.
func clean(records []ValidatedRecord, options CleanOptions) (CleanResult, error) {
	rows := make([]pipelineRow, len(records))
	for i, r := range records {
		rows[i] = pipelineRow{record: r}
	}

	run, err := runStages(rows, salesStages(len(records)))
	if err != nil {
		return CleanResult{}, err
	}

	cleaned := make([]CleanRecord, len(run.rows))
	flagged := 0
	for i, row := range run.rows {
		if !row.derived {
			return CleanResult{}, fmt.Errorf("row %d reached the end of the pipeline without derived features", i)
		}
		record, err := NewCleanRecord(row.record, row.features, row.outlier)
		if err != nil {
			return CleanResult{}, fmt.Errorf("invalid record at index %d: %w", i, err)
		}
		if record.IsOutlier {
			flagged++
		}
		cleaned[i] = record
	}

	// Returns are counted on the validity stage's input, before the drop.
	var returns []ValidatedRecord
	marked := 0
	for _, row := range run.outputs[specs.StageDuplicates] {
		if !isReturnCandidate(row.record) {
			continue
		}
		marked++
		if options.KeepReturns {
			returns = append(returns, row.record)
		}
	}
	if options.KeepReturns && returns == nil {
		returns = []ValidatedRecord{}
	}

	return CleanResult{
		Records: cleaned,
		Audit:   run.audit,
		Summary: ValidationSummary{
			InitialRows:     len(records),
			FinalRows:       len(cleaned),
			OutliersFlagged: flagged,
			ReturnsMarked:   marked,
		},
		Returns: returns,
	}, nil
}

func returnToSpec(r ValidatedRecord) specs.ReturnRecordSpec {
	ts, _ := r.InvoiceDate.Value()
	return specs.ReturnRecordSpec{
		InvoiceNo:   r.InvoiceID.ToString(),
		StockCode:   r.StockCode,
		Description: r.Description,
		Quantity:    r.Quantity.String(),
		UnitPrice:   r.UnitPrice.String(),
		CustomerID:  r.CustomerID.ToString(),
		Country:     r.Country,
		InvoiceDate: ts,
	}
}
