package tabular

import (
	"fmt"
	"sort"
	"strconv"

	specs "github.com/chrisconley/retailrfm/specs"
)

// Output table names.
const (
	TableCleaned  = "cleaned"
	TableAudit    = "audit"
	TableRFM      = "rfm"
	TableSegments = "segments"
	TableSummary  = "summary"
	TableReturns  = "returns"
)

// CleanedColumns is the header of the cleaned dataset: the extract columns
// followed by the derived ones.
var CleanedColumns = append(append([]string{}, specs.RequiredColumns...),
	"TotalSales", "TransactionDate", "Year", "Month", "DayOfWeek", "Quarter",
	"ProductCategory", "IsReturn", "IsOutlier")

func CleanedTable(records []specs.CleanRecordSpec) Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.InvoiceNo,
			r.StockCode,
			r.Description,
			r.Quantity,
			specs.FormatInvoiceDate(r.InvoiceDate),
			r.UnitPrice,
			r.CustomerID,
			r.Country,
			r.LineTotal,
			r.TransactionDate,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.DayOfWeek,
			strconv.Itoa(r.Quarter),
			r.ProductCategory,
			strconv.FormatBool(r.IsReturn),
			strconv.FormatBool(r.IsOutlier),
		}
	}
	return Table{Name: TableCleaned, Header: CleanedColumns, Rows: rows}
}

// AuditTable renders the audit log in its flat download shape.
func AuditTable(entries []specs.AuditEntrySpec) Table {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.Stage,
			strconv.Itoa(e.RowsBefore),
			strconv.Itoa(e.RowsRemoved),
			strconv.Itoa(e.RowsAfter),
			e.Reason,
		}
	}
	return Table{
		Name:   TableAudit,
		Header: []string{"step", "rows_before", "rows_removed", "rows_remaining", "description"},
		Rows:   rows,
	}
}

func RFMTable(records []specs.RFMRecordSpec) Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.CustomerID,
			strconv.Itoa(r.Recency),
			strconv.Itoa(r.Frequency),
			r.Monetary,
			strconv.Itoa(r.Score),
			r.Segment,
		}
	}
	return Table{
		Name:   TableRFM,
		Header: []string{"CustomerID", "Recency", "Frequency", "Monetary", "RFM_Score", "Customer_Segment"},
		Rows:   rows,
	}
}

func SegmentsTable(segments []specs.SegmentSummarySpec) Table {
	rows := make([][]string, len(segments))
	for i, s := range segments {
		rows[i] = []string{
			s.Segment,
			strconv.Itoa(s.Customers),
			formatFloat(s.MeanRecency),
			formatFloat(s.MeanFrequency),
			s.MeanMonetary,
			s.TotalMonetary,
		}
	}
	return Table{
		Name:   TableSegments,
		Header: []string{"segment", "customers", "mean_recency", "mean_frequency", "mean_monetary", "total_monetary"},
		Rows:   rows,
	}
}

func ReturnsTable(returns []specs.ReturnRecordSpec) Table {
	rows := make([][]string, len(returns))
	for i, r := range returns {
		date := ""
		if !r.InvoiceDate.IsZero() {
			date = specs.FormatInvoiceDate(r.InvoiceDate)
		}
		rows[i] = []string{r.InvoiceNo, r.StockCode, r.Description, r.Quantity, date, r.UnitPrice, r.CustomerID, r.Country}
	}
	return Table{Name: TableReturns, Header: specs.RequiredColumns, Rows: rows}
}

// GroupsTable renders aggregation groups. name distinguishes several group
// tables in one output.
func GroupsTable(name string, groups []specs.GroupAggregateSpec) Table {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{
			g.Dimension,
			g.Key,
			g.Revenue,
			g.MeanLineTotal,
			strconv.Itoa(g.Rows),
			strconv.Itoa(g.DistinctInvoices),
			g.Quantity,
		}
	}
	return Table{
		Name:   name,
		Header: []string{"dimension", "key", "revenue", "mean_line_total", "rows", "distinct_invoices", "quantity"},
		Rows:   rows,
	}
}

// SummaryTable flattens a summary into section, metric, value rows.
// Distribution metrics are sorted by name.
func SummaryTable(s specs.SummarySpec) Table {
	var rows [][]string
	add := func(section, metric, value string) {
		rows = append(rows, []string{section, metric, value})
	}

	o := s.Overview
	add("overview", "total_revenue", o.TotalRevenue)
	add("overview", "customers", strconv.Itoa(o.Customers))
	add("overview", "products", strconv.Itoa(o.Products))
	add("overview", "countries", strconv.Itoa(o.Countries))
	add("overview", "transactions", strconv.Itoa(o.Transactions))
	add("overview", "average_line_value", formatFloat(o.AverageLineValue))
	add("overview", "repeat_customer_rate", formatFloat(o.RepeatCustomerRate))
	add("overview", "top_customer_revenue_share", formatFloat(o.TopCustomerRevenueShare))
	add("overview", "top_country", o.TopCountry)
	add("overview", "top_country_share", formatFloat(o.TopCountryShare))

	distributions := []struct {
		section string
		values  specs.DistributionSpec
	}{
		{"line_totals", s.LineTotals},
		{"quantities", s.Quantities},
		{"unit_prices", s.UnitPrices},
		{"customer_value", s.CustomerValue},
		{"customer_value_thresholds", s.CustomerValueThresholds},
		{"recency", s.Recency},
		{"frequency", s.Frequency},
	}
	for _, d := range distributions {
		keys := make([]string, 0, len(d.values))
		for k := range d.values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			add(d.section, k, formatFloat(d.values[k]))
		}
	}

	for i, row := range s.Correlations.Values {
		for j, v := range row {
			add("correlation", fmt.Sprintf("%s~%s", s.Correlations.Columns[i], s.Correlations.Columns[j]), formatFloat(v))
		}
	}

	for _, b := range s.FrequencyBuckets {
		add("frequency_buckets", b.Label, strconv.Itoa(b.Customers))
	}

	return Table{Name: TableSummary, Header: []string{"section", "metric", "value"}, Rows: rows}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
