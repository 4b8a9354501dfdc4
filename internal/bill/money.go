package bill

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SafeDiv divides num by den, returning zero when den is zero. A zero
// quantity means no sale happened, so there is no unit price to compute.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// FormatMoney renders a monetary value with exactly two fractional digits.
// Rounding happens only here, at the export boundary.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAmount parses a monetary cell. Thousands separators and currency
// marks are tolerated; an empty cell parses as a valid zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "￥")
	s = strings.TrimPrefix(s, "¥")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ParseQuantity parses a quantity cell. An empty cell is a null quantity,
// which is distinct from an explicit zero.
func ParseQuantity(raw string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
