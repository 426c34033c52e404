package internal

import (
	"fmt"
	"strconv"

	specs "github.com/chrisconley/retailrfm/specs"
)

// Dimension is a validated grouping key column.
type Dimension struct {
	name string
}

var dimensionKeys = map[string]func(CleanRecord) string{
	specs.DimensionCustomer:    func(r CleanRecord) string { return r.CustomerID.ToString() },
	specs.DimensionProduct:     func(r CleanRecord) string { return r.StockCode },
	specs.DimensionDescription: func(r CleanRecord) string { return r.Description },
	specs.DimensionCountry:     func(r CleanRecord) string { return r.Country },
	specs.DimensionYearMonth: func(r CleanRecord) string {
		return fmt.Sprintf("%04d-%02d", r.Features.Year, r.Features.Month)
	},
	specs.DimensionMonth:     func(r CleanRecord) string { return strconv.Itoa(r.Features.Month) },
	specs.DimensionQuarter:   func(r CleanRecord) string { return strconv.Itoa(r.Features.Quarter) },
	specs.DimensionDayOfWeek: func(r CleanRecord) string { return r.Features.DayOfWeek.String() },
	specs.DimensionCategory:  func(r CleanRecord) string { return r.Features.Category },
}

func NewDimension(name string) (Dimension, error) {
	if _, ok := dimensionKeys[name]; !ok {
		return Dimension{}, fmt.Errorf("unknown dimension %q", name)
	}
	return Dimension{name: name}, nil
}

func (d Dimension) ToString() string {
	return d.name
}

func (d Dimension) keyOf(r CleanRecord) string {
	return dimensionKeys[d.name](r)
}
