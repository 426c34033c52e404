package internal

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// exactContext never rounds. Sums, differences and products of finite
// decimals are always exact.
var exactContext = apd.BaseContext

// quotientContext bounds quotients, which may not terminate, to 34
// significant digits.
var quotientContext = apd.BaseContext.WithPrecision(34)

type Decimal struct {
	value apd.Decimal
}

// NewDecimal parses s as a finite decimal. Surrounding whitespace is ignored.
func NewDecimal(s string) (Decimal, error) {
	var d apd.Decimal
	_, _, err := d.SetString(strings.TrimSpace(s))
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	if d.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal: %q is not finite", s)
	}
	return Decimal{value: d}, nil
}

func NewDecimalFromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

// String renders d in plain notation, never with an exponent.
func (d Decimal) String() string {
	return d.value.Text('f')
}

// Canonical returns the string form with trailing zeros removed, so that
// "2.50" and "2.5" render identically.
func (d Decimal) Canonical() string {
	var reduced apd.Decimal
	reduced.Reduce(&d.value)
	return reduced.Text('f')
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	return d.value.Sign()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

// Float64 returns the nearest float64. Used only by the statistical summarizer.
func (d Decimal) Float64() float64 {
	f, err := d.value.Float64()
	if err != nil {
		return 0
	}
	return f
}

// Add returns the sum of d and other.
func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	exactContext.Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Sub returns the difference of d and other.
func (d Decimal) Sub(other Decimal) Decimal {
	var result apd.Decimal
	exactContext.Sub(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Mul returns the product of d and other.
func (d Decimal) Mul(other Decimal) Decimal {
	var result apd.Decimal
	exactContext.Mul(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Div returns the quotient of d divided by other, rounded to 34 significant
// digits. Trailing zeros are dropped, so 30/2 is "15" rather than the
// full-precision "15.00...0".
func (d Decimal) Div(other Decimal) Decimal {
	var result apd.Decimal
	quotientContext.Quo(&result, &d.value, &other.value)
	var reduced apd.Decimal
	reduced.Reduce(&result)
	return Decimal{value: reduced}
}

// SumDecimals adds values in order. The sum of nothing is zero.
func SumDecimals(values []Decimal) Decimal {
	var sum Decimal
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}
