package internal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.75, Quantile(sorted, 25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 50), 1e-12)
	assert.InDelta(t, 4, Quantile(sorted, 100), 1e-12)
	assert.InDelta(t, 1, Quantile(sorted, 0), 1e-12)
	assert.InDelta(t, 7, Quantile([]float64{7}, 99), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, math.Sqrt(32.0/7), StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Zero(t, StdDev([]float64{3}))
}

func TestSkewness(t *testing.T) {
	t.Run("is zero for symmetric data", func(t *testing.T) {
		assert.InDelta(t, 0, Skewness([]float64{1, 2, 3, 4, 5}), 1e-12)
	})

	t.Run("is positive for a long right tail", func(t *testing.T) {
		assert.Greater(t, Skewness([]float64{1, 2, 3, 4, 10}), 0.0)
	})

	t.Run("is zero when undefined", func(t *testing.T) {
		assert.Zero(t, Skewness([]float64{1, 2}))
		assert.Zero(t, Skewness([]float64{4, 4, 4, 4}))
	})
}

func TestKurtosis(t *testing.T) {
	assert.InDelta(t, -1.2, Kurtosis([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.Zero(t, Kurtosis([]float64{1, 2, 3}))
	assert.Zero(t, Kurtosis([]float64{2, 2, 2, 2, 2}))
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1, Pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1, Pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Zero(t, Pearson([]float64{1, 2, 3}, []float64{5, 5, 5}))
	assert.Zero(t, Pearson([]float64{1, 2}, []float64{1}))
}

func TestDescribe(t *testing.T) {
	t.Run("reports every fixed percentile", func(t *testing.T) {
		values := make([]float64, 101)
		for i := range values {
			values[i] = float64(100 - i)
		}

		d := Describe(values).ToSpec()

		for _, key := range []string{"p01", "p05", "p25", "p50", "p75", "p95", "p99"} {
			assert.Contains(t, d, key)
		}
		assert.InDelta(t, 1, d["p01"], 1e-12)
		assert.InDelta(t, 99, d["p99"], 1e-12)
		assert.InDelta(t, 50, d["median"], 1e-12)
		assert.InDelta(t, 101, d["count"], 1e-12)
		assert.InDelta(t, 0, d["min"], 1e-12)
		assert.InDelta(t, 100, d["max"], 1e-12)
	})

	t.Run("does not reorder its input", func(t *testing.T) {
		values := []float64{3, 1, 2}

		Describe(values)

		assert.Equal(t, []float64{3, 1, 2}, values)
	})

	t.Run("with no values reports a zero count", func(t *testing.T) {
		d := Describe(nil).ToSpec()

		assert.Zero(t, d["count"])
		assert.Zero(t, d["p50"])
	})
}
