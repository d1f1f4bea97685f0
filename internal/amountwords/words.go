// Package amountwords renders monetary amounts in words using the Indian
// numbering system (thousand, lakh, crore).
package amountwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LocalCurrency is rendered as Rupees and Paise; any other code is rendered
// generically with the code as the unit label.
const LocalCurrency = "INR"

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var (
	hundredD = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
	lakh     = decimal.NewFromInt(100000)
	crore    = decimal.NewFromInt(10000000)
)

// ToWords converts amount to words, e.g. 100000 INR → "One Lakh Rupees Only".
// The fraction is rounded half-up to two places. Negative amounts are
// prefixed with "Minus".
func ToWords(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = LocalCurrency
	}

	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Abs()
	}
	amount = amount.Round(2)
	whole := amount.Truncate(0)
	fraction := amount.Sub(whole).Mul(hundredD).IntPart()

	unit, subunit := currency, "Cents"
	if currency == LocalCurrency {
		unit, subunit = "Rupees", "Paise"
	}

	words := integerWords(whole)
	if words == "" {
		words = "Zero"
	}
	out := prefix + words + " " + unit
	if fraction > 0 {
		out += " and " + belowHundred(int(fraction)) + " " + subunit
	}
	return out + " Only"
}

// integerWords renders a non-negative whole number. Crore counts above 99 are
// themselves rendered in the Indian system, so 10^12 is "One Lakh Crore".
func integerWords(n decimal.Decimal) string {
	if n.IsZero() {
		return ""
	}
	var parts []string
	if n.GreaterThanOrEqual(crore) {
		parts = append(parts, integerWords(n.Div(crore).Truncate(0)), "Crore")
		n = n.Mod(crore)
	}
	rest := n.IntPart()
	if l := rest / lakh.IntPart(); l > 0 {
		parts = append(parts, belowHundred(int(l)), "Lakh")
	}
	rest %= lakh.IntPart()
	if th := rest / thousand.IntPart(); th > 0 {
		parts = append(parts, belowHundred(int(th)), "Thousand")
	}
	rest %= thousand.IntPart()
	if rest > 0 {
		parts = append(parts, belowThousand(int(rest)))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int) string {
	if n < 100 {
		return belowHundred(n)
	}
	s := ones[n/100] + " Hundred"
	if n%100 > 0 {
		s += " " + belowHundred(n%100)
	}
	return s
}

func belowHundred(n int) string {
	if n < 20 {
		return ones[n]
	}
	s := tens[n/10]
	if n%10 > 0 {
		s += " " + ones[n%10]
	}
	return s
}
