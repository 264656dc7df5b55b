package refdata

import (
	"context"

	"github.com/apflow/backend/internal/domain/shared"
)

// ErrPostingRefused signals that the write-time consistency check
// rejected a posting: the supplier is gone or inactive, or the purchase
// order no longer accepts invoices. It is a business outcome, distinct
// from the store being unreachable.
var ErrPostingRefused = shared.NewDomainError("POSTING_REFUSED", "Invoice posting refused by write-time consistency check")

// PostedInvoiceRepository defines the interface for the posted invoice ledger
type PostedInvoiceRepository interface {
	// Append writes a posted invoice inside a transaction that re-checks
	// the referenced supplier and purchase order at write time. It returns
	// an error wrapping ErrPostingRefused when the consistency check
	// fails, and an infrastructure error when the store itself is
	// unreachable.
	Append(ctx context.Context, invoice *PostedInvoice) error

	// FindByPostedID finds a ledger entry by its posting identifier
	FindByPostedID(ctx context.Context, postedID string) (*PostedInvoice, error)

	// FindByPOReference lists ledger entries booked against a purchase order
	FindByPOReference(ctx context.Context, reference string) ([]PostedInvoice, error)

	// Count counts all ledger entries
	Count(ctx context.Context) (int64, error)
}
