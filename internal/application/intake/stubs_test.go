package intake

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/refdata"
	"github.com/apflow/backend/internal/domain/shared"
)

// stubSupplierRepo answers supplier lookups from function fields and
// counts store hits. Unset fields answer not-found.
type stubSupplierRepo struct {
	findByTaxID          func(ctx context.Context, taxID string) (*refdata.Supplier, error)
	findByRegistrationID func(ctx context.Context, registrationID string) (*refdata.Supplier, error)
	findActiveByName     func(ctx context.Context, name string) ([]refdata.Supplier, error)
	findByBankPair       func(ctx context.Context, account, routing string) (*refdata.Supplier, error)
	queries              atomic.Int64
}

var _ refdata.SupplierRepository = (*stubSupplierRepo)(nil)

func (s *stubSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*refdata.Supplier, error) {
	s.queries.Add(1)
	return nil, shared.ErrNotFound
}

func (s *stubSupplierRepo) FindByTaxID(ctx context.Context, taxID string) (*refdata.Supplier, error) {
	s.queries.Add(1)
	if s.findByTaxID == nil {
		return nil, shared.ErrNotFound
	}
	return s.findByTaxID(ctx, taxID)
}

func (s *stubSupplierRepo) FindByRegistrationID(ctx context.Context, registrationID string) (*refdata.Supplier, error) {
	s.queries.Add(1)
	if s.findByRegistrationID == nil {
		return nil, shared.ErrNotFound
	}
	return s.findByRegistrationID(ctx, registrationID)
}

func (s *stubSupplierRepo) FindActiveByName(ctx context.Context, name string) ([]refdata.Supplier, error) {
	s.queries.Add(1)
	if s.findActiveByName == nil {
		return nil, nil
	}
	return s.findActiveByName(ctx, name)
}

func (s *stubSupplierRepo) FindByBankPair(ctx context.Context, account, routing string) (*refdata.Supplier, error) {
	s.queries.Add(1)
	if s.findByBankPair == nil {
		return nil, shared.ErrNotFound
	}
	return s.findByBankPair(ctx, account, routing)
}

func (s *stubSupplierRepo) FindAll(ctx context.Context) ([]refdata.Supplier, error) {
	s.queries.Add(1)
	return nil, nil
}

func (s *stubSupplierRepo) Save(ctx context.Context, supplier *refdata.Supplier) error {
	return nil
}

func (s *stubSupplierRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

// stubOrderRepo answers purchase order lookups from a function field
type stubOrderRepo struct {
	findByReference func(ctx context.Context, reference string) (*refdata.PurchaseOrder, error)
	queries         atomic.Int64
}

var _ refdata.PurchaseOrderRepository = (*stubOrderRepo)(nil)

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*refdata.PurchaseOrder, error) {
	s.queries.Add(1)
	return nil, shared.ErrNotFound
}

func (s *stubOrderRepo) FindByReference(ctx context.Context, reference string) (*refdata.PurchaseOrder, error) {
	s.queries.Add(1)
	if s.findByReference == nil {
		return nil, shared.ErrNotFound
	}
	return s.findByReference(ctx, reference)
}

func (s *stubOrderRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]refdata.PurchaseOrder, error) {
	s.queries.Add(1)
	return nil, nil
}

func (s *stubOrderRepo) Save(ctx context.Context, po *refdata.PurchaseOrder) error {
	return nil
}

func (s *stubOrderRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

// stubLedger records appended invoices
type stubLedger struct {
	appendErr error
	appended  []*refdata.PostedInvoice
}

var _ refdata.PostedInvoiceRepository = (*stubLedger)(nil)

func (s *stubLedger) Append(ctx context.Context, invoice *refdata.PostedInvoice) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, invoice)
	return nil
}

func (s *stubLedger) FindByPostedID(ctx context.Context, postedID string) (*refdata.PostedInvoice, error) {
	return nil, shared.ErrNotFound
}

func (s *stubLedger) FindByPOReference(ctx context.Context, reference string) ([]refdata.PostedInvoice, error) {
	return nil, nil
}

func (s *stubLedger) Count(ctx context.Context) (int64, error) {
	return int64(len(s.appended)), nil
}

// stubCheck is a FieldCheck with a canned outcome or error
type stubCheck struct {
	field   string
	outcome intake.ValidationOutcome
	err     error
}

var _ FieldCheck = (*stubCheck)(nil)

func (s *stubCheck) Field() string { return s.field }

func (s *stubCheck) Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error) {
	if s.err != nil {
		return intake.ValidationOutcome{}, s.err
	}
	return s.outcome, nil
}

func passingCheck(field string) *stubCheck {
	return &stubCheck{field: field, outcome: intake.ValidationOutcome{Field: field, Valid: true, Message: "ok"}}
}

func failingCheck(field, reason string) *stubCheck {
	return &stubCheck{field: field, outcome: intake.ValidationOutcome{Field: field, Valid: false, Message: reason}}
}

// stubExtractor returns a canned extraction or error
type stubExtractor struct {
	extraction *intake.Extraction
	err        error
}

var _ intake.Extractor = (*stubExtractor)(nil)

func (s *stubExtractor) Extract(ctx context.Context, sourceRef string) (*intake.Extraction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.extraction, nil
}

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }
