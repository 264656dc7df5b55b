package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTaxID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercase with spaces", "fr 12 345 678 901", "FR12345678901"},
		{"already normalized", "FR12345678901", "FR12345678901"},
		{"tabs and newlines", "de\t123\n456789", "DE123456789"},
		{"surrounding whitespace", "  ES A12345678  ", "ESA12345678"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTaxID(tt.raw))
		})
	}
}

func TestNormalizeRegistrationID(t *testing.T) {
	// Interior spacing is significant for registration numbers
	assert.Equal(t, "HRB 12345", NormalizeRegistrationID("  HRB 12345  "))
	assert.Equal(t, "RCS Paris 453 986 960", NormalizeRegistrationID("RCS Paris 453 986 960"))
	assert.Equal(t, "", NormalizeRegistrationID("   "))
}

func TestNormalizeBankAccount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"grouped iban", "DE89 3704 0044 0532 0130 00", "DE89370400440532013000"},
		{"compact iban", "DE89370400440532013000", "DE89370400440532013000"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBankAccount(tt.raw))
		})
	}
}

func TestNormalizeBankRouting(t *testing.T) {
	assert.Equal(t, "COBADEFFXXX", NormalizeBankRouting(" cobadeffxxx "))
	assert.Equal(t, "BNPAFRPP", NormalizeBankRouting("BNPAFRPP"))
}

func TestNormalizePOReference(t *testing.T) {
	assert.Equal(t, "PO-2024-001", NormalizePOReference("  PO-2024-001 "))
	assert.Equal(t, "PO-2024-001", NormalizePOReference("PO-2024-001"))
}
