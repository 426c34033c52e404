package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) Decimal {
	t.Helper()
	d, err := NewDecimal(s)
	require.NoError(t, err)
	return d
}

func TestDecimal_Div(t *testing.T) {
	cases := []struct {
		name     string
		x, y     string
		expected string
	}{
		{"exact integer quotient has no fractional digits", "30", "2", "15"},
		{"multiple of ten stays in plain notation", "80", "2", "40"},
		{"terminating fraction keeps only significant digits", "10", "4", "2.5"},
		{"money mean drops trailing zeros", "15.30", "2", "7.65"},
		{"zero dividend is zero", "0", "3", "0"},
		{"non-terminating quotient is bounded to 34 digits", "1", "3", "0.3333333333333333333333333333333333"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			quotient := mustDecimal(t, c.x).Div(mustDecimal(t, c.y))

			assert.Equal(t, c.expected, quotient.String())
		})
	}
}

func TestDecimal_ExactArithmetic(t *testing.T) {
	t.Run("multiplies beyond 34 significant digits without rounding", func(t *testing.T) {
		product := mustDecimal(t, "123456789012345678901234567").Mul(mustDecimal(t, "1.23456789"))

		assert.Equal(t, "152415787517146788751714677.77625363", product.String())
	})

	t.Run("adds values of very different scale without rounding", func(t *testing.T) {
		sum := mustDecimal(t, "1000000000000000000000000000000000000").Add(mustDecimal(t, "0.01"))

		assert.Equal(t, "1000000000000000000000000000000000000.01", sum.String())
	})

	t.Run("keeps the input scale of products", func(t *testing.T) {
		assert.Equal(t, "15.30", mustDecimal(t, "6").Mul(mustDecimal(t, "2.55")).String())
	})
}

func TestDecimal_String(t *testing.T) {
	t.Run("never uses exponent notation", func(t *testing.T) {
		assert.Equal(t, "0.0000001", mustDecimal(t, "1E-7").String())
		assert.Equal(t, "400", mustDecimal(t, "4E+2").String())
	})
}
