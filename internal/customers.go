package internal

import (
	"context"
	"time"

	specs "github.com/chrisconley/retailrfm/specs"
)

// AggregateCustomers implements specs.AggregateCustomers.
func AggregateCustomers(records []specs.CleanRecordSpec) ([]specs.CustomerAggregateSpec, error) {
	cleanRecords, err := NewCleanRecordsFromSpecs(records)
	if err != nil {
		return nil, err
	}

	customers := aggregateCustomers(cleanRecords)

	result := make([]specs.CustomerAggregateSpec, len(customers))
	for i, c := range customers {
		result[i] = c.ToSpec()
	}
	return result, nil
}

// CustomerAggregate is the per-customer rollup RFM scoring is computed from.
type CustomerAggregate struct {
	CustomerID    CustomerID
	Monetary      Decimal
	Quantity      Decimal
	Transactions  int
	Invoices      int
	FirstPurchase time.Time
	LastPurchase  time.Time
}

func NewCustomerAggregateFromSpec(spec specs.CustomerAggregateSpec) (CustomerAggregate, error) {
	id := NewCustomerID(spec.CustomerID)
	if !id.IsPresent() {
		return CustomerAggregate{}, errRequired("customer ID")
	}
	monetary, err := NewDecimal(spec.Monetary)
	if err != nil {
		return CustomerAggregate{}, err
	}
	quantity := Decimal{}
	if spec.Quantity != "" {
		quantity, err = NewDecimal(spec.Quantity)
		if err != nil {
			return CustomerAggregate{}, err
		}
	}
	if spec.LastPurchase.IsZero() {
		return CustomerAggregate{}, errRequired("last purchase")
	}
	first := spec.FirstPurchase
	if first.IsZero() {
		first = spec.LastPurchase
	}
	return CustomerAggregate{
		CustomerID:    id,
		Monetary:      monetary,
		Quantity:      quantity,
		Transactions:  spec.Transactions,
		Invoices:      spec.DistinctInvoices,
		FirstPurchase: first,
		LastPurchase:  spec.LastPurchase,
	}, nil
}

func (c CustomerAggregate) ToSpec() specs.CustomerAggregateSpec {
	return specs.CustomerAggregateSpec{
		CustomerID:       c.CustomerID.ToString(),
		Monetary:         c.Monetary.String(),
		Transactions:     c.Transactions,
		DistinctInvoices: c.Invoices,
		Quantity:         c.Quantity.String(),
		FirstPurchase:    c.FirstPurchase,
		LastPurchase:     c.LastPurchase,
	}
}

// aggregateCustomers is the customer dimension of the aggregation engine,
// in first-occurrence order.
func aggregateCustomers(records []CleanRecord) []CustomerAggregate {
	dim := Dimension{name: specs.DimensionCustomer}
	return customersFromGroups(groupBy(records, dim))
}

// AggregateCustomersParallel is aggregateCustomers spread over workers.
func AggregateCustomersParallel(ctx context.Context, records []CleanRecord, workers int) ([]CustomerAggregate, error) {
	dim := Dimension{name: specs.DimensionCustomer}
	groups, err := GroupByParallel(ctx, records, dim, workers)
	if err != nil {
		return nil, err
	}
	return customersFromGroups(groups), nil
}

func customersFromGroups(groups []GroupAggregate) []CustomerAggregate {
	customers := make([]CustomerAggregate, len(groups))
	for i, g := range groups {
		customers[i] = CustomerAggregate{
			CustomerID:    NewCustomerID(g.Key),
			Monetary:      g.Revenue,
			Quantity:      g.Quantity,
			Transactions:  g.Rows,
			Invoices:      g.Invoices,
			FirstPurchase: g.FirstPurchase,
			LastPurchase:  g.LastPurchase,
		}
	}
	return customers
}
