package refdata

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByReference finds a purchase order by its normalized reference
	FindByReference(ctx context.Context, reference string) (*PurchaseOrder, error)

	// FindBySupplier lists purchase orders belonging to a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, po *PurchaseOrder) error

	// Count counts all purchase orders
	Count(ctx context.Context) (int64, error)
}
