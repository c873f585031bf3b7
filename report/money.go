package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as "$1,234.56", rounding half away from zero.
func FormatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

// RoundCents rounds to two decimals for display.
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatPercent renders a percentage with one decimal ("12.5%").
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDate renders dates the way the schedule tables show them ("January 2, 2006").
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("January 2, 2006")
}

// FormatMonth is the short form used in table rows ("Jan 2006").
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}
