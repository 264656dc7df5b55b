package refdata

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByTaxID finds a supplier by normalized tax identifier
	FindByTaxID(ctx context.Context, taxID string) (*Supplier, error)

	// FindByRegistrationID finds a supplier by normalized registration identifier
	FindByRegistrationID(ctx context.Context, registrationID string) (*Supplier, error)

	// FindActiveByName finds active suppliers whose name matches the given
	// fragment, case-insensitively
	FindActiveByName(ctx context.Context, name string) ([]Supplier, error)

	// FindByBankPair finds a supplier by normalized bank account and routing code
	FindByBankPair(ctx context.Context, account, routing string) (*Supplier, error)

	// FindAll lists all suppliers
	FindAll(ctx context.Context) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// Count counts all suppliers
	Count(ctx context.Context) (int64, error)
}
