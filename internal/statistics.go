package internal

import (
	"fmt"
	"math"
	"sort"
)

// ReportPercentiles are the fixed percentiles every distribution reports.
var ReportPercentiles = []int{1, 5, 25, 50, 75, 95, 99}

// Distribution describes one numeric column. Statistics that are undefined
// for the sample size or a constant column are 0.
type Distribution struct {
	Count       int
	Mean        float64
	Std         float64
	Min         float64
	Max         float64
	Median      float64
	Skew        float64
	Kurtosis    float64
	Percentiles map[int]float64
}

// Describe computes the Distribution of values. values is not modified.
func Describe(values []float64) Distribution {
	d := Distribution{Count: len(values), Percentiles: make(map[int]float64, len(ReportPercentiles))}
	if len(values) == 0 {
		for _, p := range ReportPercentiles {
			d.Percentiles[p] = 0
		}
		return d
	}

	sorted := sortedFloats(values)
	d.Mean = Mean(values)
	d.Std = StdDev(values)
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Median = Quantile(sorted, 50)
	d.Skew = Skewness(values)
	d.Kurtosis = Kurtosis(values)
	for _, p := range ReportPercentiles {
		d.Percentiles[p] = Quantile(sorted, float64(p))
	}
	return d
}

func (d Distribution) ToSpec() map[string]float64 {
	m := map[string]float64{
		"count":    float64(d.Count),
		"mean":     d.Mean,
		"std":      d.Std,
		"min":      d.Min,
		"max":      d.Max,
		"median":   d.Median,
		"skew":     d.Skew,
		"kurtosis": d.Kurtosis,
	}
	for p, v := range d.Percentiles {
		m[percentileKey(p)] = v
	}
	return m
}

func percentileKey(p int) string {
	return fmt.Sprintf("p%02d", p)
}

// Percentiles returns the requested percentiles of values keyed "pNN".
func Percentiles(values []float64, percents []int) map[string]float64 {
	result := make(map[string]float64, len(percents))
	sorted := sortedFloats(values)
	for _, p := range percents {
		if len(sorted) == 0 {
			result[percentileKey(p)] = 0
			continue
		}
		result[percentileKey(p)] = Quantile(sorted, float64(p))
	}
	return result
}

func sortedFloats(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// Quantile interpolates linearly between closest ranks at position
// (n-1)·percent/100. sorted must be ascending and non-empty.
func Quantile(sorted []float64, percent float64) float64 {
	pos := float64(len(sorted)-1) * percent / 100
	lo := int(math.Floor(pos))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the sample standard deviation (n-1 denominator).
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(n-1))
}

// Skewness is the adjusted Fisher-Pearson sample skewness. It is 0 for fewer
// than three values or a constant column.
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	m := Mean(values)
	var m2, m3 float64
	for _, v := range values {
		dev := v - m
		m2 += dev * dev
		m3 += dev * dev * dev
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Kurtosis is the bias-corrected sample excess kurtosis. It is 0 for fewer
// than four values or a constant column.
func Kurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return 0
	}
	m := Mean(values)
	var s2, s4 float64
	for _, v := range values {
		dev := v - m
		s2 += dev * dev
		s4 += dev * dev * dev * dev
	}
	if s2 == 0 {
		return 0
	}
	numerator := (n + 1) * n * (n - 1) * s4
	denominator := (n - 2) * (n - 3) * s2 * s2
	adjustment := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return numerator/denominator - adjustment
}

// Pearson is the correlation coefficient of x and y. It is 0 when either
// column is constant or the lengths differ.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	mx, my := Mean(x), Mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// CorrelationMatrix returns the pairwise Pearson matrix of columns. The
// diagonal is 1.
func CorrelationMatrix(columns [][]float64) [][]float64 {
	matrix := make([][]float64, len(columns))
	for i := range columns {
		matrix[i] = make([]float64, len(columns))
		for j := range columns {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			matrix[i][j] = Pearson(columns[i], columns[j])
		}
	}
	return matrix
}
