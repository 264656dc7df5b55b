package refdata

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/apflow/backend/internal/domain/shared"
)

// POStatus represents the lifecycle status of a purchase order
type POStatus string

const (
	POStatusOpen              POStatus = "open"
	POStatusPartiallyReceived POStatus = "partially_received"
	POStatusClosed            POStatus = "closed"
	POStatusCancelled         POStatus = "cancelled"
)

// PurchaseOrder represents an approved purchase commitment
type PurchaseOrder struct {
	shared.BaseEntity
	Reference   string          `gorm:"uniqueIndex;not null"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      POStatus        `gorm:"not null;default:'open'"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency    string          `gorm:"not null;default:'EUR'"`
	Description string
}

// NewPurchaseOrder creates a new open purchase order
func NewPurchaseOrder(reference string, supplierID uuid.UUID, totalAmount decimal.Decimal, currency string) (*PurchaseOrder, error) {
	reference = NormalizePOReference(reference)
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "purchase order reference is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "purchase order supplier is required")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "purchase order amount cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "EUR"
	}

	return &PurchaseOrder{
		BaseEntity:  shared.NewBaseEntity(),
		Reference:   reference,
		SupplierID:  supplierID,
		Status:      POStatusOpen,
		TotalAmount: totalAmount,
		Currency:    currency,
	}, nil
}

// CanReceiveInvoices reports whether invoices may still be booked
// against this order. Only open and partially received orders qualify.
func (po *PurchaseOrder) CanReceiveInvoices() bool {
	return po.Status == POStatusOpen || po.Status == POStatusPartiallyReceived
}

// MarkPartiallyReceived transitions an open order to partially received
func (po *PurchaseOrder) MarkPartiallyReceived() error {
	if po.Status != POStatusOpen && po.Status != POStatusPartiallyReceived {
		return shared.ErrInvalidState
	}
	po.Status = POStatusPartiallyReceived
	return nil
}

// Close finalizes the order. Closed orders refuse further invoices.
func (po *PurchaseOrder) Close() error {
	if po.Status == POStatusCancelled {
		return shared.ErrInvalidState
	}
	po.Status = POStatusClosed
	return nil
}

// Cancel voids the order
func (po *PurchaseOrder) Cancel() error {
	if po.Status == POStatusClosed {
		return shared.ErrInvalidState
	}
	po.Status = POStatusCancelled
	return nil
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}
