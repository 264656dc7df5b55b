package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/refdata"
	"github.com/apflow/backend/internal/domain/shared"
)

// Field names used in validation outcomes and rejection reports
const (
	FieldSupplier       = "supplier"
	FieldTaxID          = "tax_id"
	FieldRegistrationID = "registration_id"
	FieldSupplierBank   = "supplier_bank"
	FieldPurchaseOrder  = "purchase_order"
)

// FieldCheck validates one extracted concern against master data.
// A returned error means the store itself failed; a bad or missing
// field value is an invalid outcome, never an error. Absent fields
// short-circuit to invalid without querying the store.
type FieldCheck interface {
	Field() string
	Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error)
}

func failure(field, message string) intake.ValidationOutcome {
	return intake.ValidationOutcome{Field: field, Valid: false, Message: message}
}

func success(field, message string, details map[string]any) intake.ValidationOutcome {
	return intake.ValidationOutcome{Field: field, Valid: true, Message: message, Details: details}
}

// storeFailure classifies a repository error: not-found becomes a
// failing outcome, anything else is an infrastructure failure.
func storeFailure(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
}

// SupplierIdentityCheck matches the extracted supplier name against
// active suppliers, case-insensitively.
type SupplierIdentityCheck struct {
	suppliers refdata.SupplierRepository
}

// NewSupplierIdentityCheck creates the supplier identity check
func NewSupplierIdentityCheck(suppliers refdata.SupplierRepository) *SupplierIdentityCheck {
	return &SupplierIdentityCheck{suppliers: suppliers}
}

// Field returns the checked field name
func (c *SupplierIdentityCheck) Field() string { return FieldSupplier }

// Check validates the extracted supplier name
func (c *SupplierIdentityCheck) Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error) {
	if inv == nil || inv.SupplierName == nil {
		return failure(FieldSupplier, "supplier name not extracted from invoice"), nil
	}

	name := *inv.SupplierName
	matches, err := c.suppliers.FindActiveByName(ctx, name)
	if err != nil {
		return intake.ValidationOutcome{}, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	if len(matches) == 0 {
		return failure(FieldSupplier, fmt.Sprintf("supplier %q not found in master data", name)), nil
	}

	return success(FieldSupplier, fmt.Sprintf("supplier %q matched %q", name, matches[0].Name), map[string]any{
		"supplier_id":  matches[0].ID.String(),
		"matched_name": matches[0].Name,
		"match_count":  len(matches),
	}), nil
}

// TaxIDCheck matches the extracted tax identifier against an active
// supplier's registered tax id.
type TaxIDCheck struct {
	suppliers refdata.SupplierRepository
}

// NewTaxIDCheck creates the tax id check
func NewTaxIDCheck(suppliers refdata.SupplierRepository) *TaxIDCheck {
	return &TaxIDCheck{suppliers: suppliers}
}

// Field returns the checked field name
func (c *TaxIDCheck) Field() string { return FieldTaxID }

// Check validates the extracted tax id
func (c *TaxIDCheck) Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error) {
	if inv == nil || inv.TaxID == nil {
		return failure(FieldTaxID, "tax id not extracted from invoice"), nil
	}

	normalized := refdata.NormalizeTaxID(*inv.TaxID)
	supplier, err := c.suppliers.FindByTaxID(ctx, normalized)
	if err != nil {
		if infraErr := storeFailure(err); infraErr != nil {
			return intake.ValidationOutcome{}, infraErr
		}
		return failure(FieldTaxID, fmt.Sprintf("tax id %q is not registered to any supplier", normalized)), nil
	}
	if !supplier.Active {
		return failure(FieldTaxID, fmt.Sprintf("tax id %q belongs to inactive supplier %q", normalized, supplier.Name)), nil
	}

	return success(FieldTaxID, fmt.Sprintf("tax id %q registered to supplier %q", normalized, supplier.Name), map[string]any{
		"supplier_id": supplier.ID.String(),
	}), nil
}

// RegistrationIDCheck matches the extracted business registration id
// against an active supplier's registered value.
type RegistrationIDCheck struct {
	suppliers refdata.SupplierRepository
}

// NewRegistrationIDCheck creates the registration id check
func NewRegistrationIDCheck(suppliers refdata.SupplierRepository) *RegistrationIDCheck {
	return &RegistrationIDCheck{suppliers: suppliers}
}

// Field returns the checked field name
func (c *RegistrationIDCheck) Field() string { return FieldRegistrationID }

// Check validates the extracted registration id
func (c *RegistrationIDCheck) Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error) {
	if inv == nil || inv.RegistrationID == nil {
		return failure(FieldRegistrationID, "registration id not extracted from invoice"), nil
	}

	normalized := refdata.NormalizeRegistrationID(*inv.RegistrationID)
	supplier, err := c.suppliers.FindByRegistrationID(ctx, normalized)
	if err != nil {
		if infraErr := storeFailure(err); infraErr != nil {
			return intake.ValidationOutcome{}, infraErr
		}
		return failure(FieldRegistrationID, fmt.Sprintf("registration id %q is not registered to any supplier", normalized)), nil
	}
	if !supplier.Active {
		return failure(FieldRegistrationID, fmt.Sprintf("registration id %q belongs to inactive supplier %q", normalized, supplier.Name)), nil
	}

	return success(FieldRegistrationID, fmt.Sprintf("registration id %q registered to supplier %q", normalized, supplier.Name), map[string]any{
		"supplier_id": supplier.ID.String(),
	}), nil
}

// BankPairCheck matches the extracted account/routing pair against a
// single active supplier's stored pair. Both halves must be present;
// a partial pair short-circuits without touching the store.
type BankPairCheck struct {
	suppliers refdata.SupplierRepository
}

// NewBankPairCheck creates the bank pair check
func NewBankPairCheck(suppliers refdata.SupplierRepository) *BankPairCheck {
	return &BankPairCheck{suppliers: suppliers}
}

// Field returns the checked field name
func (c *BankPairCheck) Field() string { return FieldSupplierBank }

// Check validates the extracted bank details
func (c *BankPairCheck) Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error) {
	if inv == nil || inv.BankAccount == nil || inv.BankRouting == nil {
		return failure(FieldSupplierBank, "bank details not fully extracted"), nil
	}

	account := refdata.NormalizeBankAccount(*inv.BankAccount)
	routing := refdata.NormalizeBankRouting(*inv.BankRouting)
	supplier, err := c.suppliers.FindByBankPair(ctx, account, routing)
	if err != nil {
		if infraErr := storeFailure(err); infraErr != nil {
			return intake.ValidationOutcome{}, infraErr
		}
		return failure(FieldSupplierBank, "bank details do not match any registered supplier"), nil
	}
	if !supplier.Active {
		return failure(FieldSupplierBank, fmt.Sprintf("bank details belong to inactive supplier %q", supplier.Name)), nil
	}

	return success(FieldSupplierBank, fmt.Sprintf("bank details match supplier %q", supplier.Name), map[string]any{
		"supplier_id": supplier.ID.String(),
	}), nil
}

// PurchaseOrderCheck resolves the extracted purchase order reference
// and verifies the order still accepts invoices.
type PurchaseOrderCheck struct {
	orders refdata.PurchaseOrderRepository
}

// NewPurchaseOrderCheck creates the purchase order check
func NewPurchaseOrderCheck(orders refdata.PurchaseOrderRepository) *PurchaseOrderCheck {
	return &PurchaseOrderCheck{orders: orders}
}

// Field returns the checked field name
func (c *PurchaseOrderCheck) Field() string { return FieldPurchaseOrder }

// Check validates the extracted purchase order reference
func (c *PurchaseOrderCheck) Check(ctx context.Context, inv *intake.ExtractedInvoice) (intake.ValidationOutcome, error) {
	if inv == nil || inv.PONumber == nil {
		return failure(FieldPurchaseOrder, "purchase order reference not extracted from invoice"), nil
	}

	reference := refdata.NormalizePOReference(*inv.PONumber)
	po, err := c.orders.FindByReference(ctx, reference)
	if err != nil {
		if infraErr := storeFailure(err); infraErr != nil {
			return intake.ValidationOutcome{}, infraErr
		}
		return failure(FieldPurchaseOrder, fmt.Sprintf("purchase order %q not found in master data", reference)), nil
	}
	if !po.CanReceiveInvoices() {
		return failure(FieldPurchaseOrder, fmt.Sprintf("purchase order %q has status %q and cannot receive invoices", reference, po.Status)), nil
	}

	return success(FieldPurchaseOrder, fmt.Sprintf("purchase order %q is receivable", reference), map[string]any{
		"purchase_order_id": po.ID.String(),
		"po_status":         string(po.Status),
	}), nil
}
