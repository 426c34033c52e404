package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	specs "github.com/chrisconley/retailrfm/specs"
)

const retailCSV = "\uFEFFInvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n" +
	"536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,12/1/2010 8:26,2.55,17850,United Kingdom\n" +
	"536365,71053,\"WHITE METAL LANTERN, LARGE\",6,12/1/2010 8:26,3.39,17850,United Kingdom\n" +
	"536366,22633,HAND WARMER UNION JACK,6,12/1/2010 8:28,1.85\n"

func TestFormatOf(t *testing.T) {
	for path, expected := range map[string]Format{
		"retail.csv":     FormatCSV,
		"retail.CSV.sz":  FormatSnappyCSV,
		"Online.xlsx":    FormatXLSX,
		"a/b/c.data.csv": FormatCSV,
	} {
		format, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, expected, format, path)
	}

	_, err := FormatOf("retail.parquet")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadCSV(t *testing.T) {
	t.Run("reads header and ragged rows", func(t *testing.T) {
		extract, err := ReadCSV(strings.NewReader(retailCSV))

		require.NoError(t, err)
		assert.Equal(t, specs.RequiredColumns, extract.Columns)
		require.Len(t, extract.Rows, 3)
		assert.Equal(t, "WHITE METAL LANTERN, LARGE", extract.Rows[1][2])

		records := extract.Records()
		require.Len(t, records, 3)
		assert.Equal(t, "", records[2].CustomerID)
	})

	t.Run("reads an empty input as an empty extract", func(t *testing.T) {
		extract, err := ReadCSV(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, extract.Columns)
		assert.Empty(t, extract.Rows)
	})
}

func TestSnappyCSV(t *testing.T) {
	t.Run("reads back what it writes", func(t *testing.T) {
		table := Table{Name: "audit", Header: []string{"a", "b"}, Rows: [][]string{{"1", "x,y"}, {"2", ""}}}
		dir := t.TempDir()

		paths, err := WriteFiles(dir, "csv", true, []Table{table})
		require.NoError(t, err)
		require.Equal(t, []string{filepath.Join(dir, "audit.csv.sz")}, paths)

		extract, err := ReadExtractFile(paths[0], "")

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, extract.Columns)
		assert.Equal(t, table.Rows, extract.Rows)
	})
}

func TestWorkbook(t *testing.T) {
	t.Run("writes one sheet per table and reads a sheet back", func(t *testing.T) {
		extract, err := ReadCSV(strings.NewReader(retailCSV))
		require.NoError(t, err)
		tables := []Table{
			{Name: TableCleaned, Header: extract.Columns, Rows: extract.Rows},
			AuditTable([]specs.AuditEntrySpec{{Stage: specs.StageIdentity, RowsBefore: 3, RowsAfter: 2, RowsRemoved: 1, Reason: "no customer"}}),
		}
		var buf bytes.Buffer

		require.NoError(t, WriteWorkbook(&buf, tables))

		cleaned, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "")
		require.NoError(t, err)
		assert.Equal(t, extract.Columns, cleaned.Columns)
		assert.Equal(t, "12/1/2010 8:26", cleaned.Rows[0][4])
		assert.Equal(t, "2.55", cleaned.Rows[0][5])

		audit, err := ReadXLSX(bytes.NewReader(buf.Bytes()), TableAudit)
		require.NoError(t, err)
		assert.Equal(t, []string{"step", "rows_before", "rows_removed", "rows_remaining", "description"}, audit.Columns)
		assert.Equal(t, []string{specs.StageIdentity, "3", "1", "2", "no customer"}, audit.Rows[0])
	})

	t.Run("with an unknown sheet returns error", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteWorkbook(&buf, []Table{{Name: "only", Header: []string{"a"}}}))

		_, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "missing")

		require.Error(t, err)
	})
}

func TestExcelSerialToLayout(t *testing.T) {
	assert.Equal(t, "12/1/2010 8:26", excelSerialToLayout("40513.35138888889"))
	assert.Equal(t, "12/1/2010 8:26", excelSerialToLayout("12/1/2010 8:26"))
	assert.Equal(t, "", excelSerialToLayout(""))
}

func TestCleanedTable(t *testing.T) {
	record := specs.CleanRecordSpec{
		InvoiceNo:       "536365",
		StockCode:       "85123A",
		Description:     "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:        "6",
		InvoiceDate:     time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		UnitPrice:       "2.55",
		CustomerID:      "17850",
		Country:         "United Kingdom",
		LineTotal:       "15.30",
		TransactionDate: "2010-12-01",
		Year:            2010,
		Month:           12,
		Quarter:         4,
		DayOfWeek:       "Wednesday",
		ProductCategory: "WHITE",
	}

	table := CleanedTable([]specs.CleanRecordSpec{record})

	assert.Len(t, table.Header, 17)
	assert.Equal(t, []string{
		"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", "6", "12/1/2010 8:26", "2.55", "17850",
		"United Kingdom", "15.30", "2010-12-01", "2010", "12", "Wednesday", "4", "WHITE", "false", "false",
	}, table.Rows[0])
}

func TestSummaryTable(t *testing.T) {
	summary := specs.SummarySpec{
		Overview:   specs.OverviewSpec{TotalRevenue: "350", Customers: 2, TopCountry: "United Kingdom"},
		LineTotals: specs.DistributionSpec{"mean": 87.5, "count": 4},
		Correlations: specs.CorrelationMatrixSpec{
			Columns: []string{"Quantity", "UnitPrice"},
			Values:  [][]float64{{1, -0.5}, {-0.5, 1}},
		},
		FrequencyBuckets: []specs.FrequencyBucketSpec{{Label: "1", Customers: 1}},
	}

	table := SummaryTable(summary)

	assert.Contains(t, table.Rows, []string{"overview", "total_revenue", "350"})
	assert.Contains(t, table.Rows, []string{"line_totals", "count", "4"})
	assert.Contains(t, table.Rows, []string{"line_totals", "mean", "87.5"})
	assert.Contains(t, table.Rows, []string{"correlation", "Quantity~UnitPrice", "-0.5"})
	assert.Contains(t, table.Rows, []string{"frequency_buckets", "1", "1"})
}
