package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/apflow/backend/internal/domain/refdata"
	"github.com/apflow/backend/internal/domain/shared"
)

// GormPostedInvoiceRepository implements PostedInvoiceRepository using GORM
type GormPostedInvoiceRepository struct {
	db *gorm.DB
}

var _ refdata.PostedInvoiceRepository = (*GormPostedInvoiceRepository)(nil)

// NewGormPostedInvoiceRepository creates a new GormPostedInvoiceRepository
func NewGormPostedInvoiceRepository(db *gorm.DB) *GormPostedInvoiceRepository {
	return &GormPostedInvoiceRepository{db: db}
}

// Append writes the ledger entry inside one transaction that re-checks
// the supplier and purchase order. The row only exists if both checks
// held at commit time; a failed check refuses the posting without
// leaving a partial row.
func (r *GormPostedInvoiceRepository) Append(ctx context.Context, invoice *refdata.PostedInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var supplier refdata.Supplier
		if err := tx.First(&supplier, "id = ?", invoice.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: supplier %s no longer exists", refdata.ErrPostingRefused, invoice.SupplierID)
			}
			return err
		}
		if !supplier.Active {
			return fmt.Errorf("%w: supplier %q is inactive", refdata.ErrPostingRefused, supplier.Name)
		}

		var po refdata.PurchaseOrder
		if err := tx.First(&po, "reference = ?", invoice.POReference).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: purchase order %q no longer exists", refdata.ErrPostingRefused, invoice.POReference)
			}
			return err
		}
		if !po.CanReceiveInvoices() {
			return fmt.Errorf("%w: purchase order %q has status %q", refdata.ErrPostingRefused, po.Reference, po.Status)
		}

		return tx.Create(invoice).Error
	})
}

// FindByPostedID finds a ledger entry by its posting identifier
func (r *GormPostedInvoiceRepository) FindByPostedID(ctx context.Context, postedID string) (*refdata.PostedInvoice, error) {
	var invoice refdata.PostedInvoice
	if err := r.db.WithContext(ctx).
		Where("posted_id = ?", postedID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByPOReference lists ledger entries booked against a purchase order
func (r *GormPostedInvoiceRepository) FindByPOReference(ctx context.Context, reference string) ([]refdata.PostedInvoice, error) {
	var invoices []refdata.PostedInvoice
	if err := r.db.WithContext(ctx).
		Where("po_reference = ?", refdata.NormalizePOReference(reference)).
		Order("created_at").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts all ledger entries
func (r *GormPostedInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&refdata.PostedInvoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
