package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// Monetary values travel as decimal strings with two fraction digits
// ("150.00"). Arithmetic happens on integer cents so display values never
// pick up binary float artifacts.

// ParseAmount converts a decimal string into cents. At most two fraction
// digits are accepted.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatAmount renders cents as a decimal string with two fraction digits.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseRate converts a percentage string ("18", "18.5") into basis points.
func ParseRate(s string) (int64, error) {
	return ParseAmount(s) // same grammar; cents of a percent = basis points
}

// TaxFor computes the tax in cents for a subtotal at the given rate in basis
// points, rounding half away from zero.
func TaxFor(subtotalCents, rateBasisPoints int64) int64 {
	product := subtotalCents * rateBasisPoints
	if product >= 0 {
		return (product + 5000) / 10000
	}
	return (product - 5000) / 10000
}
