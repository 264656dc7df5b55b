package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/refdata"
	"github.com/apflow/backend/internal/domain/shared"
)

// PostResult reports the outcome of one posting attempt. Success false
// means the engine refused; the attempt is terminal either way.
type PostResult struct {
	Success  bool   `json:"success"`
	PostedID string `json:"posted_id,omitempty"`
	Message  string `json:"message"`
}

// Poster books a fully validated extraction into the posted invoice
// ledger. It re-resolves the supplier and purchase order at write time
// instead of trusting validator results, because master data may have
// changed between validation and posting.
type Poster struct {
	suppliers refdata.SupplierRepository
	orders    refdata.PurchaseOrderRepository
	ledger    refdata.PostedInvoiceRepository
	logger    *zap.Logger
}

// NewPoster creates a posting engine over the given stores
func NewPoster(suppliers refdata.SupplierRepository, orders refdata.PurchaseOrderRepository, ledger refdata.PostedInvoiceRepository, logger *zap.Logger) *Poster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poster{suppliers: suppliers, orders: orders, ledger: ledger, logger: logger}
}

// Post appends the invoice to the ledger. A refusal comes back as an
// unsuccessful result with a nil error; an error is returned only when
// the store itself failed. Refusals never retry.
func (p *Poster) Post(ctx context.Context, rec *intake.ProcessingRecord) (*PostResult, error) {
	inv := rec.Extracted
	if inv == nil {
		return refusal("no extracted invoice to post"), nil
	}
	if inv.TaxID == nil {
		return refusal("cannot post without an extracted tax id"), nil
	}
	if inv.PONumber == nil {
		return refusal("cannot post without an extracted purchase order reference"), nil
	}

	taxID := refdata.NormalizeTaxID(*inv.TaxID)
	supplier, err := p.suppliers.FindByTaxID(ctx, taxID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return refusal(fmt.Sprintf("supplier with tax id %q no longer exists", taxID)), nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	if !supplier.Active {
		return refusal(fmt.Sprintf("supplier %q is no longer active", supplier.Name)), nil
	}

	reference := refdata.NormalizePOReference(*inv.PONumber)
	po, err := p.orders.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return refusal(fmt.Sprintf("purchase order %q no longer exists", reference)), nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	if !po.CanReceiveInvoices() {
		return refusal(fmt.Sprintf("purchase order %q has status %q and is no longer receivable", reference, po.Status)), nil
	}

	posted, err := refdata.NewPostedInvoice(
		supplier.ID,
		reference,
		deref(inv.InvoiceNumber),
		deref(inv.InvoiceDate),
		derefAmount(inv.NetTotal),
		derefAmount(inv.TaxAmount),
		derefAmount(inv.GrossTotal),
		deref(inv.Currency),
	)
	if err != nil {
		return refusal(fmt.Sprintf("cannot build ledger entry: %v", err)), nil
	}

	if err := p.ledger.Append(ctx, posted); err != nil {
		if errors.Is(err, refdata.ErrPostingRefused) {
			return refusal(err.Error()), nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	p.logger.Info("invoice posted",
		zap.String("source_ref", rec.SourceRef),
		zap.String("posted_id", posted.PostedID),
		zap.String("supplier", supplier.Name),
		zap.String("purchase_order", reference))

	return &PostResult{
		Success:  true,
		PostedID: posted.PostedID,
		Message:  fmt.Sprintf("invoice posted as %s", posted.PostedID),
	}, nil
}

func refusal(message string) *PostResult {
	return &PostResult{Success: false, Message: message}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefAmount(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
