package refdata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/apflow/backend/internal/domain/shared"
)

// PostedInvoice is an accounts-payable invoice accepted into the ledger.
// Rows are append-only: once posted an invoice is never mutated here.
type PostedInvoice struct {
	shared.BaseEntity
	PostedID      string    `gorm:"uniqueIndex;not null"`
	SupplierID    uuid.UUID `gorm:"type:uuid;not null;index"`
	POReference   string    `gorm:"not null;index"`
	InvoiceNumber string    `gorm:"not null"`
	InvoiceDate   string
	NetTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	GrossTotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency      string          `gorm:"not null;default:'EUR'"`
}

// NewPostedInvoice creates a posted invoice with a generated posting id
func NewPostedInvoice(supplierID uuid.UUID, poReference, invoiceNumber, invoiceDate string, netTotal, taxAmount, grossTotal decimal.Decimal, currency string) (*PostedInvoice, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "posted invoice supplier is required")
	}
	poReference = NormalizePOReference(poReference)
	if poReference == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "posted invoice purchase order reference is required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "EUR"
	}

	base := shared.NewBaseEntity()
	return &PostedInvoice{
		BaseEntity:    base,
		PostedID:      GeneratePostedID(base.ID),
		SupplierID:    supplierID,
		POReference:   poReference,
		InvoiceNumber: strings.TrimSpace(invoiceNumber),
		InvoiceDate:   strings.TrimSpace(invoiceDate),
		NetTotal:      netTotal,
		TaxAmount:     taxAmount,
		GrossTotal:    grossTotal,
		Currency:      currency,
	}, nil
}

// GeneratePostedID derives the human-facing posting identifier from the
// entity id: "INV-" plus the first 8 hex digits, uppercased.
func GeneratePostedID(id uuid.UUID) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("INV-%s", strings.ToUpper(compact[:8]))
}

// TableName returns the table name for GORM
func (PostedInvoice) TableName() string {
	return "posted_invoices"
}
