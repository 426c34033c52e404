package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	specs "github.com/chrisconley/retailrfm/specs"
)

func TestNormalize(t *testing.T) {
	t.Run("parses well-formed fields", func(t *testing.T) {
		record := Normalize(specs.RawRecordSpec{
			InvoiceNo:   "536365",
			StockCode:   "85123A",
			Description: "WHITE HANGING HEART",
			Quantity:    "6",
			InvoiceDate: "12/1/2010 8:26",
			UnitPrice:   "2.55",
			CustomerID:  " 17850 ",
			Country:     "United Kingdom",
		})

		assert.True(t, record.Quantity.IsPositive())
		assert.True(t, record.UnitPrice.IsPositive())
		ts, ok := record.InvoiceDate.Value()
		assert.True(t, ok)
		assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), ts)
		assert.Equal(t, "17850", record.CustomerID.ToString())
		assert.Equal(t, "United Kingdom", record.Country)
	})

	t.Run("marks malformed values invalid instead of failing", func(t *testing.T) {
		record := Normalize(specs.RawRecordSpec{
			Quantity:    "six",
			UnitPrice:   "",
			InvoiceDate: "2010-12-01",
		})

		assert.False(t, record.Quantity.IsValid())
		assert.Equal(t, "six", record.Quantity.String())
		assert.False(t, record.UnitPrice.IsValid())
		assert.False(t, record.InvoiceDate.IsValid())
		assert.False(t, record.CustomerID.IsPresent())
		assert.False(t, record.InvoiceID.IsPresent())
	})

	t.Run("treats a whitespace customer ID as absent", func(t *testing.T) {
		record := Normalize(specs.RawRecordSpec{CustomerID: "   "})

		assert.False(t, record.CustomerID.IsPresent())
	})

	t.Run("rejects non-finite numbers", func(t *testing.T) {
		record := Normalize(specs.RawRecordSpec{Quantity: "NaN", UnitPrice: "Infinity"})

		assert.False(t, record.Quantity.IsValid())
		assert.False(t, record.UnitPrice.IsValid())
	})
}

func TestDeriveFeatures(t *testing.T) {
	t.Run("computes an exact line total", func(t *testing.T) {
		record := Normalize(specs.RawRecordSpec{Quantity: "3", UnitPrice: "0.1", InvoiceDate: "3/31/2011 23:59"})

		features, err := DeriveFeatures(record)

		assert.NoError(t, err)
		assert.Equal(t, "0.3", features.LineTotal.String())
		assert.Equal(t, 1, features.Quarter)
		assert.Equal(t, time.Thursday, features.DayOfWeek)
	})

	t.Run("with invalid timestamp returns error", func(t *testing.T) {
		record := Normalize(specs.RawRecordSpec{Quantity: "3", UnitPrice: "0.1", InvoiceDate: "soon"})

		_, err := DeriveFeatures(record)

		assert.Error(t, err)
	})
}

func TestQuarterOf(t *testing.T) {
	expected := map[int]int{1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4, 12: 4}
	for month, quarter := range expected {
		assert.Equal(t, quarter, QuarterOf(month), "month %d", month)
	}
}

func TestProductCategory(t *testing.T) {
	assert.Equal(t, "WHITE", ProductCategory("WHITE HANGING HEART"))
	assert.Equal(t, "POSTAGE", ProductCategory("  POSTAGE"))
	assert.Equal(t, "", ProductCategory(""))
	assert.Equal(t, "", ProductCategory("   "))
}
