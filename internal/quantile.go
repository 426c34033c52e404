package internal

import "slices"

func sortedDecimals(values []Decimal) []Decimal {
	sorted := make([]Decimal, len(values))
	copy(sorted, values)
	slices.SortStableFunc(sorted, func(a, b Decimal) int { return a.Cmp(b) })
	return sorted
}

// quantileDecimal interpolates linearly between closest ranks at position
// (n-1)·percent/100 of sorted. The position is kept in integer hundredths so
// the interpolation stays exact. sorted must be non-empty.
func quantileDecimal(sorted []Decimal, percent int) Decimal {
	hundredths := (len(sorted) - 1) * percent
	lo := hundredths / 100
	rem := hundredths % 100
	if rem == 0 || lo+1 >= len(sorted) {
		return sorted[lo]
	}
	step := sorted[lo+1].Sub(sorted[lo]).Mul(NewDecimalFromInt64(int64(rem))).Div(NewDecimalFromInt64(100))
	return sorted[lo].Add(step)
}

// medianDecimal is the population median of values. values must be non-empty.
func medianDecimal(values []Decimal) Decimal {
	return quantileDecimal(sortedDecimals(values), 50)
}
