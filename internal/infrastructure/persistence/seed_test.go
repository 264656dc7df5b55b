package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apflow/backend/internal/domain/refdata"
)

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	suppliers := NewGormSupplierRepository(db)
	orders := NewGormPurchaseOrderRepository(db)
	seeder := NewSeeder(suppliers, orders, nil)

	require.NoError(t, seeder.Seed(ctx))

	supplierCount, err := suppliers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), supplierCount)

	orderCount, err := orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), orderCount)

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, seeder.Seed(ctx))

		supplierCount, err := suppliers.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), supplierCount)
	})

	t.Run("orders reference seeded suppliers", func(t *testing.T) {
		po, err := orders.FindByReference(ctx, "PO-2024-001")
		require.NoError(t, err)

		supplier, err := suppliers.FindByID(ctx, po.SupplierID)
		require.NoError(t, err)
		assert.Equal(t, "Nordwind Components GmbH", supplier.Name)
	})

	t.Run("includes a closed order for receivability paths", func(t *testing.T) {
		po, err := orders.FindByReference(ctx, "PO-2024-005")
		require.NoError(t, err)
		assert.Equal(t, refdata.POStatusClosed, po.Status)
		assert.False(t, po.CanReceiveInvoices())
	})

	t.Run("identifiers are stored normalized", func(t *testing.T) {
		supplier, err := suppliers.FindByTaxID(ctx, "de 812 345 670")
		require.NoError(t, err)
		assert.Equal(t, "DE812345670", supplier.TaxID)
	})
}
