package selection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"3":    3,
		" 12":  12,
		"+4":   4,
		"-2":   -2,
		"5.9":  5,
		"3abc": 3,
		"1e3":  1,
		"abc":  1,
		"":     1,
		"-":    1,
		"  ":   1,
	}
	for raw, want := range tests {
		require.Equal(t, want, parseQuantity(raw), "parseQuantity(%q)", raw)
	}
}

func TestClampQuantity(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, clampQuantity(0, 5))
	require.Equal(t, 1, clampQuantity(-3, 5))
	require.Equal(t, 5, clampQuantity(9, 5))
	require.Equal(t, 3, clampQuantity(3, 5))
	require.Equal(t, 1, clampQuantity(3, 0))
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₹450.00", FormatAmount(DefaultCurrencySymbol, decimal.NewFromInt(450)))
	require.Equal(t, "₹1350.00", FormatAmount(DefaultCurrencySymbol, decimal.NewFromInt(450).Mul(decimal.NewFromInt(3))))
	require.Equal(t, "₹0.10", FormatAmount(DefaultCurrencySymbol, decimal.RequireFromString("0.1")))
}
