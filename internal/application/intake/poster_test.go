package intake

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/refdata"
	"github.com/apflow/backend/internal/domain/shared"
)

func postableRecord() *intake.ProcessingRecord {
	net := decimal.NewFromInt(100)
	tax := decimal.NewFromInt(19)
	gross := decimal.NewFromInt(119)
	rec := intake.NewProcessingRecord("invoices/a.pdf")
	rec.Extracted = &intake.ExtractedInvoice{
		SupplierName:  strptr("Nordwind Components GmbH"),
		TaxID:         strptr("DE123456789"),
		PONumber:      strptr("PO-2024-001"),
		InvoiceNumber: strptr("INV-778"),
		InvoiceDate:   strptr("2024-03-01"),
		NetTotal:      &net,
		TaxAmount:     &tax,
		GrossTotal:    &gross,
		Currency:      strptr("EUR"),
	}
	return rec
}

func TestPoster_Post(t *testing.T) {
	ctx := context.Background()

	supplier := activeSupplier("Nordwind Components GmbH")
	openPO, _ := refdata.NewPurchaseOrder("PO-2024-001", supplier.ID, decimal.NewFromInt(1000), "EUR")

	supplierRepo := func(s *refdata.Supplier) *stubSupplierRepo {
		return &stubSupplierRepo{
			findByTaxID: func(ctx context.Context, taxID string) (*refdata.Supplier, error) {
				if s == nil {
					return nil, shared.ErrNotFound
				}
				return s, nil
			},
		}
	}
	orderRepo := func(po *refdata.PurchaseOrder) *stubOrderRepo {
		return &stubOrderRepo{
			findByReference: func(ctx context.Context, reference string) (*refdata.PurchaseOrder, error) {
				if po == nil {
					return nil, shared.ErrNotFound
				}
				return po, nil
			},
		}
	}

	t.Run("posts and returns the ledger id", func(t *testing.T) {
		ledger := &stubLedger{}
		poster := NewPoster(supplierRepo(supplier), orderRepo(openPO), ledger, nil)

		result, err := poster.Post(ctx, postableRecord())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Regexp(t, `^INV-[0-9A-F]{8}$`, result.PostedID)
		require.Len(t, ledger.appended, 1)
		assert.Equal(t, supplier.ID, ledger.appended[0].SupplierID)
		assert.Equal(t, "PO-2024-001", ledger.appended[0].POReference)
	})

	t.Run("refuses without an extracted invoice", func(t *testing.T) {
		poster := NewPoster(supplierRepo(supplier), orderRepo(openPO), &stubLedger{}, nil)
		rec := intake.NewProcessingRecord("invoices/a.pdf")

		result, err := poster.Post(ctx, rec)
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("refuses without a tax id", func(t *testing.T) {
		poster := NewPoster(supplierRepo(supplier), orderRepo(openPO), &stubLedger{}, nil)
		rec := postableRecord()
		rec.Extracted.TaxID = nil

		result, err := poster.Post(ctx, rec)
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("refuses when the supplier disappeared", func(t *testing.T) {
		poster := NewPoster(supplierRepo(nil), orderRepo(openPO), &stubLedger{}, nil)

		result, err := poster.Post(ctx, postableRecord())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "no longer exists")
	})

	t.Run("refuses when the supplier was deactivated", func(t *testing.T) {
		inactive := activeSupplier("Nordwind Components GmbH")
		inactive.Deactivate()
		poster := NewPoster(supplierRepo(inactive), orderRepo(openPO), &stubLedger{}, nil)

		result, err := poster.Post(ctx, postableRecord())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "no longer active")
	})

	t.Run("refuses when the purchase order closed since validation", func(t *testing.T) {
		closed, _ := refdata.NewPurchaseOrder("PO-2024-001", supplier.ID, decimal.NewFromInt(1000), "EUR")
		require.NoError(t, closed.Close())
		poster := NewPoster(supplierRepo(supplier), orderRepo(closed), &stubLedger{}, nil)

		result, err := poster.Post(ctx, postableRecord())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "no longer receivable")
	})

	t.Run("ledger refusal is a result, not an error", func(t *testing.T) {
		ledger := &stubLedger{
			appendErr: fmt.Errorf("%w: purchase order closed", refdata.ErrPostingRefused),
		}
		poster := NewPoster(supplierRepo(supplier), orderRepo(openPO), ledger, nil)

		result, err := poster.Post(ctx, postableRecord())
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("store failure is an error", func(t *testing.T) {
		broken := &stubSupplierRepo{
			findByTaxID: func(ctx context.Context, taxID string) (*refdata.Supplier, error) {
				return nil, errors.New("connection refused")
			},
		}
		poster := NewPoster(broken, orderRepo(openPO), &stubLedger{}, nil)

		_, err := poster.Post(ctx, postableRecord())
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	})

	t.Run("ledger store failure is an error", func(t *testing.T) {
		ledger := &stubLedger{appendErr: errors.New("disk full")}
		poster := NewPoster(supplierRepo(supplier), orderRepo(openPO), ledger, nil)

		_, err := poster.Post(ctx, postableRecord())
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	})
}
