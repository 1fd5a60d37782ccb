package client

import "strings"

// ValidAmount reports whether s is a decimal the API accepts for prices and
// payment amounts: ASCII digits, an optional dot with one or two decimals,
// and at most six digits before the dot.
func ValidAmount(s string) bool {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(s), ".")
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return false
	}
	if whole == "" && frac == "" {
		return false
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return false
	}
	return len(strings.TrimLeft(whole, "0")) <= 6
}

// ValidDays reports whether s is a positive whole number of days
func ValidDays(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && digitsOnly(s) && strings.TrimLeft(s, "0") != ""
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
