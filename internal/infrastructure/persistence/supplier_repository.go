package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apflow/backend/internal/domain/refdata"
	"github.com/apflow/backend/internal/domain/shared"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

var _ refdata.SupplierRepository = (*GormSupplierRepository)(nil)

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*refdata.Supplier, error) {
	var supplier refdata.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByTaxID finds a supplier by normalized tax identifier
func (r *GormSupplierRepository) FindByTaxID(ctx context.Context, taxID string) (*refdata.Supplier, error) {
	var supplier refdata.Supplier
	if err := r.db.WithContext(ctx).
		Where("tax_id = ?", refdata.NormalizeTaxID(taxID)).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByRegistrationID finds a supplier by normalized registration identifier
func (r *GormSupplierRepository) FindByRegistrationID(ctx context.Context, registrationID string) (*refdata.Supplier, error) {
	var supplier refdata.Supplier
	if err := r.db.WithContext(ctx).
		Where("registration_id = ?", refdata.NormalizeRegistrationID(registrationID)).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindActiveByName finds active suppliers whose name contains the given
// fragment, case-insensitively. LOWER/LIKE keeps the query portable
// between postgres and the sqlite test databases.
func (r *GormSupplierRepository) FindActiveByName(ctx context.Context, name string) ([]refdata.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var suppliers []refdata.Supplier
	pattern := "%" + strings.ToLower(name) + "%"
	if err := r.db.WithContext(ctx).
		Where("active = ? AND LOWER(name) LIKE ?", true, pattern).
		Order("name").
		Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// FindByBankPair finds a supplier by normalized bank account and routing code
func (r *GormSupplierRepository) FindByBankPair(ctx context.Context, account, routing string) (*refdata.Supplier, error) {
	var supplier refdata.Supplier
	if err := r.db.WithContext(ctx).
		Where("bank_account = ? AND bank_routing = ?",
			refdata.NormalizeBankAccount(account), refdata.NormalizeBankRouting(routing)).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAll lists all suppliers
func (r *GormSupplierRepository) FindAll(ctx context.Context) ([]refdata.Supplier, error) {
	var suppliers []refdata.Supplier
	if err := r.db.WithContext(ctx).Order("name").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *refdata.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Count counts all suppliers
func (r *GormSupplierRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&refdata.Supplier{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
