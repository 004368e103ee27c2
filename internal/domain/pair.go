package domain

import "strings"

// NormalizeCurrency trims and uppercases a currency code.
func NormalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// PairKey returns the normalized "FROM_TO" identifier of a currency pair.
func PairKey(from, to string) string {
	return NormalizeCurrency(from) + "_" + NormalizeCurrency(to)
}

// IsIdentity reports whether both sides name the same currency.
func IsIdentity(from, to string) bool {
	return NormalizeCurrency(from) == NormalizeCurrency(to)
}
