package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	specs "github.com/chrisconley/retailrfm/specs"
)

func TestSummarize(t *testing.T) {
	records := []specs.CleanRecordSpec{
		cleanRecord("1", "A", "1", "100", day(10)).ToSpec(),
		cleanRecord("2", "A", "1", "100", day(5)).ToSpec(),
		cleanRecord("3", "A", "1", "100", day(0)).ToSpec(),
		cleanRecord("4", "B", "2", "25", day(30)).ToSpec(),
	}
	records[3].Country = "France"
	customers, err := AggregateCustomers(records)
	require.NoError(t, err)
	rfm, err := Segment(customers)
	require.NoError(t, err)

	t.Run("computes the overview", func(t *testing.T) {
		summary, err := Summarize(records, rfm)

		require.NoError(t, err)
		o := summary.Overview
		assert.Equal(t, "350", o.TotalRevenue)
		assert.Equal(t, 2, o.Customers)
		assert.Equal(t, 1, o.Products)
		assert.Equal(t, 2, o.Countries)
		assert.Equal(t, 4, o.Transactions)
		assert.InDelta(t, 87.5, o.AverageLineValue, 1e-9)
		assert.InDelta(t, 0.5, o.RepeatCustomerRate, 1e-9)
		assert.InDelta(t, 300.0/350, o.TopCustomerRevenueShare, 1e-9)
		assert.Equal(t, "United Kingdom", o.TopCountry)
		assert.InDelta(t, 300.0/350, o.TopCountryShare, 1e-9)
	})

	t.Run("buckets customers by invoice count", func(t *testing.T) {
		summary, err := Summarize(records, rfm)

		require.NoError(t, err)
		require.Len(t, summary.FrequencyBuckets, 4)
		assert.Equal(t, "1", summary.FrequencyBuckets[0].Label)
		assert.Equal(t, 1, summary.FrequencyBuckets[0].Customers)
		assert.Equal(t, "2-5", summary.FrequencyBuckets[1].Label)
		assert.Equal(t, 1, summary.FrequencyBuckets[1].Customers)
		assert.InDelta(t, 0.5, summary.FrequencyBuckets[1].Share, 1e-9)
		assert.Zero(t, summary.FrequencyBuckets[3].Customers)
	})

	t.Run("correlates quantity, unit price and line total", func(t *testing.T) {
		summary, err := Summarize(records, rfm)

		require.NoError(t, err)
		assert.Equal(t, specs.CorrelationColumns, summary.Correlations.Columns)
		require.Len(t, summary.Correlations.Values, 3)
		for i := range 3 {
			assert.InDelta(t, 1, summary.Correlations.Values[i][i], 1e-12)
		}
		assert.InDelta(t, summary.Correlations.Values[0][1], summary.Correlations.Values[1][0], 1e-12)
		assert.Less(t, summary.Correlations.Values[0][1], 0.0)
	})

	t.Run("reports customer value thresholds", func(t *testing.T) {
		summary, err := Summarize(records, rfm)

		require.NoError(t, err)
		for _, key := range []string{"p25", "p50", "p75", "p80", "p90", "p99"} {
			assert.Contains(t, summary.CustomerValueThresholds, key)
		}
		assert.InDelta(t, 175, summary.CustomerValueThresholds["p50"], 1e-9)
		assert.InDelta(t, 2, summary.CustomerValue["count"], 1e-9)
	})

	t.Run("leaves its inputs untouched", func(t *testing.T) {
		before := make([]specs.CleanRecordSpec, len(records))
		copy(before, records)

		_, err := Summarize(records, rfm)

		require.NoError(t, err)
		assert.Equal(t, before, records)
	})

	t.Run("with no records returns zero statistics", func(t *testing.T) {
		summary, err := Summarize(nil, specs.RFMResultSpec{})

		require.NoError(t, err)
		assert.Equal(t, "0", summary.Overview.TotalRevenue)
		assert.Zero(t, summary.LineTotals["count"])
		assert.Equal(t, "", summary.Overview.TopCountry)
	})
}
