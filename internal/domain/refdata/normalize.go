package refdata

import "strings"

// NormalizeTaxID uppercases a tax identifier and strips all whitespace,
// so "fr 12 345 678 901" and "FR12345678901" compare equal.
func NormalizeTaxID(raw string) string {
	return stripWhitespace(strings.ToUpper(raw))
}

// NormalizeRegistrationID trims surrounding whitespace. Interior spacing
// is significant for registration numbers and is preserved.
func NormalizeRegistrationID(raw string) string {
	return strings.TrimSpace(raw)
}

// NormalizeBankAccount strips all whitespace from an account number,
// accepting the grouped form printed on invoices.
func NormalizeBankAccount(raw string) string {
	return stripWhitespace(raw)
}

// NormalizeBankRouting uppercases a routing/BIC code and trims whitespace.
func NormalizeBankRouting(raw string) string {
	return stripWhitespace(strings.ToUpper(raw))
}

// NormalizePOReference trims surrounding whitespace from a purchase
// order reference. Lookups are otherwise exact.
func NormalizePOReference(raw string) string {
	return strings.TrimSpace(raw)
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
