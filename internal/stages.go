package internal

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// outlierIQRMultiplier widens [Q1, Q3] on each side by this many IQRs.
const outlierIQRMultiplier = 3

func identityFilter(in []pipelineRow) ([]pipelineRow, string, error) {
	out := make([]pipelineRow, 0, len(in))
	for _, row := range in {
		if row.record.CustomerID.IsPresent() && row.record.InvoiceID.IsPresent() {
			out = append(out, row)
		}
	}
	return out, "Rows without a customer ID or invoice ID cannot be attributed to any entity", nil
}

// duplicateFilter keeps the first occurrence of every distinct row.
// Rows are bucketed by a 128-bit murmur3 fingerprint of their identity key and
// compared in full only on a fingerprint match.
func duplicateFilter(in []pipelineRow) ([]pipelineRow, string, error) {
	out := make([]pipelineRow, 0, len(in))
	seen := make(map[[2]uint64][]int, len(in))

	for _, row := range in {
		key := row.record.identityKey()
		h1, h2 := murmur3.Sum128([]byte(key))
		fp := [2]uint64{h1, h2}

		duplicate := false
		for _, idx := range seen[fp] {
			if out[idx].record.identityKey() == key {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen[fp] = append(seen[fp], len(out))
		out = append(out, row)
	}
	return out, "Exact duplicate rows removed, first occurrence kept", nil
}

// isReturnCandidate marks rows whose quantity parsed as negative.
func isReturnCandidate(r ValidatedRecord) bool {
	return r.Quantity.IsNegative()
}

func isSale(r ValidatedRecord) bool {
	return r.Quantity.IsPositive() && r.UnitPrice.IsPositive() && r.InvoiceDate.IsValid()
}

// validityFilter marks returns before dropping every row that is not a sale,
// so the marking is observable on the stage's input.
func validityFilter(in []pipelineRow) ([]pipelineRow, string, error) {
	marked := 0
	out := make([]pipelineRow, 0, len(in))
	for _, row := range in {
		row.isReturn = isReturnCandidate(row.record)
		if row.isReturn {
			marked++
		}
		if isSale(row.record) {
			out = append(out, row)
		}
	}
	reason := fmt.Sprintf(
		"Returns, cancellations and rows with non-positive or malformed quantity, unit price or timestamp removed (%d returns marked)",
		marked)
	return out, reason, nil
}

// outlierFlag derives features for every row, then flags line totals outside
// [Q1 - 3·IQR, Q3 + 3·IQR]. No row is removed.
func outlierFlag(in []pipelineRow) ([]pipelineRow, string, error) {
	out := make([]pipelineRow, len(in))
	totals := make([]Decimal, len(in))
	for i, row := range in {
		features, err := DeriveFeatures(row.record)
		if err != nil {
			return nil, "", fmt.Errorf("row %d: %w", i, err)
		}
		row.features = features
		row.derived = true
		out[i] = row
		totals[i] = features.LineTotal
	}

	if len(out) == 0 {
		return out, "No rows to flag", nil
	}

	lower, upper := iqrFences(totals, outlierIQRMultiplier)
	flagged := 0
	for i := range out {
		total := out[i].features.LineTotal
		out[i].outlier = total.Cmp(lower) < 0 || total.Cmp(upper) > 0
		if out[i].outlier {
			flagged++
		}
	}

	reason := fmt.Sprintf("Line totals outside [%s, %s] flagged as outliers (%d rows), none removed",
		lower.String(), upper.String(), flagged)
	return out, reason, nil
}

// iqrFences returns Q1 - k·IQR and Q3 + k·IQR of values. values must be non-empty.
func iqrFences(values []Decimal, k int64) (Decimal, Decimal) {
	sorted := sortedDecimals(values)
	q1 := quantileDecimal(sorted, 25)
	q3 := quantileDecimal(sorted, 75)
	spread := q3.Sub(q1).Mul(NewDecimalFromInt64(k))
	return q1.Sub(spread), q3.Add(spread)
}

func validationSummary(initialRows int) func([]pipelineRow) ([]pipelineRow, string, error) {
	return func(in []pipelineRow) ([]pipelineRow, string, error) {
		out := make([]pipelineRow, len(in))
		copy(out, in)
		removed := initialRows - len(in)
		return out, fmt.Sprintf("Removed %d of %d rows (%.1f%%)", removed, initialRows, percentOf(removed, initialRows)), nil
	}
}

func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
