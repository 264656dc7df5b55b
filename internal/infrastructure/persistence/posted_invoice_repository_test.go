package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apflow/backend/internal/domain/refdata"
)

func TestGormPostedInvoiceRepository_Append(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*GormSupplierRepository, *GormPurchaseOrderRepository, *GormPostedInvoiceRepository, *refdata.Supplier, *refdata.PurchaseOrder) {
		db := newTestDB(t)
		suppliers := NewGormSupplierRepository(db)
		orders := NewGormPurchaseOrderRepository(db)
		ledger := NewGormPostedInvoiceRepository(db)

		supplier, err := refdata.NewSupplier("Nordwind Components GmbH",
			"DE812345670", "HRB 86123", "DE44500105175407324931", "COBADEFFXXX")
		require.NoError(t, err)
		require.NoError(t, suppliers.Save(ctx, supplier))

		po, err := refdata.NewPurchaseOrder("PO-2024-001", supplier.ID, decimal.NewFromInt(12500), "EUR")
		require.NoError(t, err)
		require.NoError(t, orders.Save(ctx, po))

		return suppliers, orders, ledger, supplier, po
	}

	newInvoice := func(t *testing.T, supplier *refdata.Supplier) *refdata.PostedInvoice {
		inv, err := refdata.NewPostedInvoice(supplier.ID, "PO-2024-001", "INV-778", "2024-03-01",
			decimal.NewFromInt(100), decimal.NewFromInt(19), decimal.NewFromInt(119), "EUR")
		require.NoError(t, err)
		return inv
	}

	t.Run("appends when supplier and order still hold", func(t *testing.T) {
		_, _, ledger, supplier, _ := setup(t)

		inv := newInvoice(t, supplier)
		require.NoError(t, ledger.Append(ctx, inv))

		found, err := ledger.FindByPostedID(ctx, inv.PostedID)
		require.NoError(t, err)
		assert.Equal(t, "INV-778", found.InvoiceNumber)

		count, err := ledger.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("refuses when the order closed after validation", func(t *testing.T) {
		_, orders, ledger, supplier, po := setup(t)

		require.NoError(t, po.Close())
		require.NoError(t, orders.Save(ctx, po))

		err := ledger.Append(ctx, newInvoice(t, supplier))
		assert.ErrorIs(t, err, refdata.ErrPostingRefused)

		count, err := ledger.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count, "a refused posting must not leave a partial row")
	})

	t.Run("refuses when the supplier was deactivated", func(t *testing.T) {
		suppliers, _, ledger, supplier, _ := setup(t)

		supplier.Deactivate()
		require.NoError(t, suppliers.Save(ctx, supplier))

		err := ledger.Append(ctx, newInvoice(t, supplier))
		assert.ErrorIs(t, err, refdata.ErrPostingRefused)
	})

	t.Run("refuses when the order reference is unknown", func(t *testing.T) {
		_, _, ledger, supplier, _ := setup(t)

		inv, err := refdata.NewPostedInvoice(supplier.ID, "PO-9999", "INV-1", "",
			decimal.Zero, decimal.Zero, decimal.Zero, "EUR")
		require.NoError(t, err)

		assert.ErrorIs(t, ledger.Append(ctx, inv), refdata.ErrPostingRefused)
	})

	t.Run("FindByPOReference lists booked invoices", func(t *testing.T) {
		_, _, ledger, supplier, _ := setup(t)

		first := newInvoice(t, supplier)
		require.NoError(t, ledger.Append(ctx, first))

		second, err := refdata.NewPostedInvoice(supplier.ID, "PO-2024-001", "INV-779", "2024-03-02",
			decimal.NewFromInt(50), decimal.NewFromInt(9), decimal.NewFromInt(59), "EUR")
		require.NoError(t, err)
		require.NoError(t, ledger.Append(ctx, second))

		found, err := ledger.FindByPOReference(ctx, "PO-2024-001")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
}
