package benchmarks

import (
	"fmt"
	"time"

	specs "github.com/chrisconley/retailrfm/specs"
)

var products = []struct {
	stock       string
	description string
	price       string
}{
	{"85123A", "WHITE HANGING HEART T-LIGHT HOLDER", "2.55"},
	{"22633", "HAND WARMER UNION JACK", "1.85"},
	{"84879", "ASSORTED COLOUR BIRD ORNAMENT", "1.69"},
	{"22728", "ALARM CLOCK BAKELIKE PINK", "3.75"},
	{"22086", "PAPER CHAIN KIT 50'S CHRISTMAS", "2.55"},
	{"21730", "GLASS STAR FROSTED T-LIGHT HOLDER", "4.25"},
	{"22752", "SET 7 BABUSHKA NESTING BOXES", "7.65"},
	{"47566", "PARTY BUNTING", "4.95"},
}

var countries = []string{"United Kingdom", "United Kingdom", "United Kingdom", "France", "Germany", "EIRE"}

// generateExtract builds a deterministic extract of n rows spread over a
// year. About 2% of rows are returns, 1% duplicates and 1% lack a customer.
func generateExtract(n int) specs.ExtractSpec {
	start := time.Date(2010, 12, 1, 8, 0, 0, 0, time.UTC)
	rows := make([][]string, 0, n)
	for i := 0; len(rows) < n; i++ {
		p := products[i%len(products)]
		customer := fmt.Sprintf("%d", 12346+(i*7919)%4000)
		invoice := fmt.Sprintf("%d", 536365+i/4)
		quantity := fmt.Sprintf("%d", 1+(i*31)%24)
		at := specs.FormatInvoiceDate(start.Add(time.Duration(i*37) * time.Minute))

		switch {
		case i%50 == 0:
			invoice = "C" + invoice
			quantity = "-" + quantity
		case i%100 == 1:
			customer = ""
		}

		row := []string{invoice, p.stock, p.description, quantity, at, p.price, customer, countries[i%len(countries)]}
		rows = append(rows, row)
		if i%100 == 2 && len(rows) < n {
			rows = append(rows, row)
		}
	}

	columns := make([]string, len(specs.RequiredColumns))
	copy(columns, specs.RequiredColumns)
	return specs.ExtractSpec{Columns: columns, Rows: rows}
}
