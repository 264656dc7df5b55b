package intake

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/shared"
)

func TestAggregator_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("records one outcome per check in fixed order", func(t *testing.T) {
		agg := NewAggregatorWithChecks(nil,
			passingCheck(FieldSupplier),
			failingCheck(FieldTaxID, "not registered"),
			passingCheck(FieldRegistrationID),
			failingCheck(FieldSupplierBank, "no match"),
			passingCheck(FieldPurchaseOrder),
		)
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.Extracted = &intake.ExtractedInvoice{}

		require.NoError(t, agg.Validate(ctx, rec))

		require.Len(t, rec.ValidationResults, 5)
		wantOrder := []string{FieldSupplier, FieldTaxID, FieldRegistrationID, FieldSupplierBank, FieldPurchaseOrder}
		for i, field := range wantOrder {
			assert.Equal(t, field, rec.ValidationResults[i].Field)
		}
		assert.False(t, rec.AllPassed)
	})

	t.Run("all passing sets AllPassed", func(t *testing.T) {
		agg := NewAggregatorWithChecks(nil,
			passingCheck(FieldSupplier),
			passingCheck(FieldTaxID),
			passingCheck(FieldRegistrationID),
			passingCheck(FieldSupplierBank),
			passingCheck(FieldPurchaseOrder),
		)
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.Extracted = &intake.ExtractedInvoice{}

		require.NoError(t, agg.Validate(ctx, rec))
		assert.True(t, rec.AllPassed)
	})

	t.Run("any failing check clears AllPassed", func(t *testing.T) {
		// Exercise every combination of pass/fail across the five checks
		for mask := 0; mask < 1<<5; mask++ {
			mask := mask
			t.Run(fmt.Sprintf("mask_%05b", mask), func(t *testing.T) {
				fields := []string{FieldSupplier, FieldTaxID, FieldRegistrationID, FieldSupplierBank, FieldPurchaseOrder}
				checks := make([]FieldCheck, len(fields))
				for i, field := range fields {
					if mask&(1<<i) != 0 {
						checks[i] = passingCheck(field)
					} else {
						checks[i] = failingCheck(field, "failed")
					}
				}
				agg := NewAggregatorWithChecks(nil, checks...)
				rec := intake.NewProcessingRecord("invoices/a.pdf")
				rec.Extracted = &intake.ExtractedInvoice{}

				require.NoError(t, agg.Validate(ctx, rec))
				assert.Len(t, rec.ValidationResults, 5)
				assert.Equal(t, mask == 1<<5-1, rec.AllPassed)
			})
		}
	})

	t.Run("store failure aborts and leaves the record untouched", func(t *testing.T) {
		storeErr := fmt.Errorf("%w: connection refused", shared.ErrStoreUnavailable)
		agg := NewAggregatorWithChecks(nil,
			passingCheck(FieldSupplier),
			&stubCheck{field: FieldTaxID, err: storeErr},
			passingCheck(FieldRegistrationID),
			passingCheck(FieldSupplierBank),
			passingCheck(FieldPurchaseOrder),
		)
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.Extracted = &intake.ExtractedInvoice{}

		err := agg.Validate(ctx, rec)
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
		assert.Empty(t, rec.ValidationResults)
		assert.False(t, rec.AllPassed)
	})

	t.Run("non-store errors still abort", func(t *testing.T) {
		agg := NewAggregatorWithChecks(nil,
			&stubCheck{field: FieldSupplier, err: errors.New("boom")},
		)
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.Extracted = &intake.ExtractedInvoice{}

		assert.Error(t, agg.Validate(ctx, rec))
	})
}
