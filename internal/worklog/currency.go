package worklog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount in yuan with two decimals and thousands separators,
// e.g. ¥3,800.00.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, fraction, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return sign + "¥" + grouped.String() + "." + fraction
}
