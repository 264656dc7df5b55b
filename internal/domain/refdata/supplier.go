// Package refdata holds the vendor master data the intake pipeline
// validates extracted invoices against: suppliers, purchase orders, and
// the ledger of invoices that were already posted.
package refdata

import (
	"strings"

	"github.com/apflow/backend/internal/domain/shared"
)

// Supplier represents a vendor registered in the master data
type Supplier struct {
	shared.BaseEntity
	Name           string `gorm:"not null;index"`
	TaxID          string `gorm:"uniqueIndex;not null"`
	RegistrationID string `gorm:"uniqueIndex;not null"`
	BankAccount    string `gorm:"not null"`
	BankRouting    string `gorm:"not null"`
	Address        string
	City           string
	Country        string
	Active         bool `gorm:"not null;default:true"`
}

// NewSupplier creates a new supplier with normalized identifiers
func NewSupplier(name, taxID, registrationID, bankAccount, bankRouting string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "supplier name is required")
	}
	taxID = NormalizeTaxID(taxID)
	if taxID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "supplier tax id is required")
	}
	registrationID = NormalizeRegistrationID(registrationID)
	if registrationID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "supplier registration id is required")
	}

	return &Supplier{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		TaxID:          taxID,
		RegistrationID: registrationID,
		BankAccount:    NormalizeBankAccount(bankAccount),
		BankRouting:    NormalizeBankRouting(bankRouting),
		Active:         true,
	}, nil
}

// Deactivate marks the supplier as inactive. Inactive suppliers fail
// identity validation and refuse invoice postings.
func (s *Supplier) Deactivate() {
	s.Active = false
}

// Activate marks the supplier as active
func (s *Supplier) Activate() {
	s.Active = true
}

// MatchesName reports whether the extracted name matches this supplier.
// Matching is case-insensitive and tolerant of prefixes/suffixes such as
// legal forms, so "ACME" matches "ACME Industries SARL".
func (s *Supplier) MatchesName(extracted string) bool {
	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		return false
	}
	canonical := strings.ToLower(s.Name)
	candidate := strings.ToLower(extracted)
	return strings.Contains(canonical, candidate) || strings.Contains(candidate, canonical)
}

// HasBankPair reports whether the supplier's bank details equal the given
// normalized account/routing pair.
func (s *Supplier) HasBankPair(account, routing string) bool {
	return s.BankAccount == NormalizeBankAccount(account) &&
		s.BankRouting == NormalizeBankRouting(routing)
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}
