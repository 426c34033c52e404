package internal

import (
	"fmt"

	specs "github.com/chrisconley/retailrfm/specs"
)

// Summarize implements specs.Summarize.
func Summarize(records []specs.CleanRecordSpec, rfm specs.RFMResultSpec) (specs.SummarySpec, error) {
	cleanRecords, err := NewCleanRecordsFromSpecs(records)
	if err != nil {
		return specs.SummarySpec{}, err
	}
	rfmRecords := make([]RFMRecord, len(rfm.Records))
	for i, spec := range rfm.Records {
		r, err := newRFMRecordFromSpec(spec)
		if err != nil {
			return specs.SummarySpec{}, fmt.Errorf("invalid RFM record at index %d: %w", i, err)
		}
		rfmRecords[i] = r
	}

	return summarize(cleanRecords, rfmRecords).ToSpec(), nil
}

// LifetimeValuePercentiles are the customer value thresholds reported
// alongside the distribution.
var LifetimeValuePercentiles = []int{25, 50, 75, 80, 90, 99}

// topCustomerFraction is the head of the customer ranking whose revenue share
// is reported.
const topCustomerFraction = 0.2

type FrequencyBucket struct {
	Label     string
	Min       int
	Max       int // 0 means unbounded
	Customers int
	Share     float64
}

func (b FrequencyBucket) contains(frequency int) bool {
	return frequency >= b.Min && (b.Max == 0 || frequency <= b.Max)
}

func frequencyBuckets() []FrequencyBucket {
	return []FrequencyBucket{
		{Label: "1", Min: 1, Max: 1},
		{Label: "2-5", Min: 2, Max: 5},
		{Label: "6-10", Min: 6, Max: 10},
		{Label: "11+", Min: 11},
	}
}

type Overview struct {
	TotalRevenue            Decimal
	Customers               int
	Products                int
	Countries               int
	Transactions            int
	AverageLineValue        float64
	RepeatCustomerRate      float64
	TopCustomerRevenueShare float64
	TopCountry              string
	TopCountryShare         float64
}

type Summary struct {
	Overview                Overview
	LineTotals              Distribution
	Quantities              Distribution
	UnitPrices              Distribution
	CustomerValue           Distribution
	CustomerValueThresholds map[string]float64
	Recency                 Distribution
	Frequency               Distribution
	Correlations            [][]float64
	FrequencyBuckets        []FrequencyBucket
}

func (s Summary) ToSpec() specs.SummarySpec {
	buckets := make([]specs.FrequencyBucketSpec, len(s.FrequencyBuckets))
	for i, b := range s.FrequencyBuckets {
		buckets[i] = specs.FrequencyBucketSpec{Label: b.Label, Customers: b.Customers, Share: b.Share}
	}
	columns := make([]string, len(specs.CorrelationColumns))
	copy(columns, specs.CorrelationColumns)

	return specs.SummarySpec{
		Overview: specs.OverviewSpec{
			TotalRevenue:            s.Overview.TotalRevenue.String(),
			Customers:               s.Overview.Customers,
			Products:                s.Overview.Products,
			Countries:               s.Overview.Countries,
			Transactions:            s.Overview.Transactions,
			AverageLineValue:        s.Overview.AverageLineValue,
			RepeatCustomerRate:      s.Overview.RepeatCustomerRate,
			TopCustomerRevenueShare: s.Overview.TopCustomerRevenueShare,
			TopCountry:              s.Overview.TopCountry,
			TopCountryShare:         s.Overview.TopCountryShare,
		},
		LineTotals:              s.LineTotals.ToSpec(),
		Quantities:              s.Quantities.ToSpec(),
		UnitPrices:              s.UnitPrices.ToSpec(),
		CustomerValue:           s.CustomerValue.ToSpec(),
		CustomerValueThresholds: s.CustomerValueThresholds,
		Recency:                 s.Recency.ToSpec(),
		Frequency:               s.Frequency.ToSpec(),
		Correlations: specs.CorrelationMatrixSpec{
			Columns: columns,
			Values:  s.Correlations,
		},
		FrequencyBuckets: buckets,
	}
}

// summarize reads records and rfm without modifying either.
func summarize(records []CleanRecord, rfm []RFMRecord) Summary {
	quantities := make([]float64, len(records))
	prices := make([]float64, len(records))
	totals := make([]float64, len(records))
	lineTotals := make([]Decimal, len(records))
	for i, r := range records {
		quantities[i] = r.Quantity.Float64()
		prices[i] = r.UnitPrice.Float64()
		totals[i] = r.LineTotal().Float64()
		lineTotals[i] = r.LineTotal()
	}

	values := make([]float64, len(rfm))
	recencies := make([]float64, len(rfm))
	frequencies := make([]float64, len(rfm))
	for i, r := range rfm {
		values[i] = r.Customer.Monetary.Float64()
		recencies[i] = float64(r.Recency)
		frequencies[i] = float64(r.Frequency)
	}

	return Summary{
		Overview:                overview(records, lineTotals, totals, rfm),
		LineTotals:              Describe(totals),
		Quantities:              Describe(quantities),
		UnitPrices:              Describe(prices),
		CustomerValue:           Describe(values),
		CustomerValueThresholds: Percentiles(values, LifetimeValuePercentiles),
		Recency:                 Describe(recencies),
		Frequency:               Describe(frequencies),
		Correlations:            CorrelationMatrix([][]float64{quantities, prices, totals}),
		FrequencyBuckets:        bucketFrequencies(rfm),
	}
}

func overview(records []CleanRecord, lineTotals []Decimal, totals []float64, rfm []RFMRecord) Overview {
	customers := groupBy(records, Dimension{name: specs.DimensionCustomer})
	products := groupBy(records, Dimension{name: specs.DimensionProduct})
	countries := groupBy(records, Dimension{name: specs.DimensionCountry})
	invoices := make(map[string]struct{})
	for _, r := range records {
		invoices[r.InvoiceID.ToString()] = struct{}{}
	}

	o := Overview{
		TotalRevenue:            SumDecimals(lineTotals),
		Customers:               len(customers),
		Products:                len(products),
		Countries:               len(countries),
		Transactions:            len(invoices),
		AverageLineValue:        Mean(totals),
		TopCustomerRevenueShare: RevenueShare(customers, topCustomerFraction),
	}

	if len(rfm) > 0 {
		repeat := 0
		for _, r := range rfm {
			if r.Frequency > 1 {
				repeat++
			}
		}
		o.RepeatCustomerRate = float64(repeat) / float64(len(rfm))
	}

	if top := TopN(countries, RankByRevenue, 1); len(top) == 1 {
		o.TopCountry = top[0].Key
		if o.TotalRevenue.Sign() > 0 {
			o.TopCountryShare = top[0].Revenue.Div(o.TotalRevenue).Float64()
		}
	}
	return o
}

func bucketFrequencies(rfm []RFMRecord) []FrequencyBucket {
	buckets := frequencyBuckets()
	for _, r := range rfm {
		for i := range buckets {
			if buckets[i].contains(r.Frequency) {
				buckets[i].Customers++
				break
			}
		}
	}
	if len(rfm) > 0 {
		for i := range buckets {
			buckets[i].Share = float64(buckets[i].Customers) / float64(len(rfm))
		}
	}
	return buckets
}

func newRFMRecordFromSpec(spec specs.RFMRecordSpec) (RFMRecord, error) {
	id := NewCustomerID(spec.CustomerID)
	if !id.IsPresent() {
		return RFMRecord{}, errRequired("customer ID")
	}
	monetary, err := NewDecimal(spec.Monetary)
	if err != nil {
		return RFMRecord{}, err
	}
	return RFMRecord{
		Customer: CustomerAggregate{
			CustomerID:    id,
			Monetary:      monetary,
			Invoices:      spec.Frequency,
			FirstPurchase: spec.FirstPurchase,
			LastPurchase:  spec.LastPurchase,
		},
		Recency:   spec.Recency,
		Frequency: spec.Frequency,
		Score:     spec.Score,
		Segment:   ValueSegment(spec.Segment),
	}, nil
}
