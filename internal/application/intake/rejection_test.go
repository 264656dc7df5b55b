package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apflow/backend/internal/domain/intake"
)

func TestReporter_Report(t *testing.T) {
	reporter := NewReporter()

	t.Run("collects failing outcomes in recorded order", func(t *testing.T) {
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.Extracted = &intake.ExtractedInvoice{
			InvoiceNumber: strptr("INV-778"),
			SupplierName:  strptr("Nordwind Components GmbH"),
		}
		rec.ValidationResults = []intake.ValidationOutcome{
			{Field: FieldSupplier, Valid: true},
			{Field: FieldTaxID, Valid: false, Message: "tax id not registered"},
			{Field: FieldRegistrationID, Valid: true},
			{Field: FieldSupplierBank, Valid: false, Message: "bank details do not match"},
			{Field: FieldPurchaseOrder, Valid: true},
		}

		report := reporter.Report(rec)

		assert.True(t, report.Rejected)
		assert.Equal(t, "INV-778", report.InvoiceNumber)
		assert.Equal(t, "Nordwind Components GmbH", report.SupplierName)
		assert.Equal(t, 2, report.FailureCount)
		require.Len(t, report.Failures, 2)
		assert.Equal(t, FieldTaxID, report.Failures[0].Field)
		assert.Equal(t, FieldSupplierBank, report.Failures[1].Field)
		assert.Equal(t, RemediationInstruction, report.Recommendation)
	})

	t.Run("falls back to unknown for absent identifiers", func(t *testing.T) {
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.ValidationResults = []intake.ValidationOutcome{
			{Field: FieldSupplier, Valid: false, Message: "supplier name not extracted"},
		}

		report := reporter.Report(rec)
		assert.Equal(t, "unknown", report.InvoiceNumber)
		assert.Equal(t, "unknown", report.SupplierName)
	})

	t.Run("no failures yields an empty but non-nil list", func(t *testing.T) {
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.ValidationResults = []intake.ValidationOutcome{
			{Field: FieldSupplier, Valid: true},
		}

		report := reporter.Report(rec)
		assert.Equal(t, 0, report.FailureCount)
		assert.NotNil(t, report.Failures)
		assert.Empty(t, report.Failures)
	})

	t.Run("reporting is deterministic", func(t *testing.T) {
		rec := intake.NewProcessingRecord("invoices/a.pdf")
		rec.Extracted = &intake.ExtractedInvoice{InvoiceNumber: strptr("INV-1")}
		rec.ValidationResults = []intake.ValidationOutcome{
			{Field: FieldTaxID, Valid: false, Message: "tax id not registered"},
		}

		first, err := json.Marshal(reporter.Report(rec))
		require.NoError(t, err)
		second, err := json.Marshal(reporter.Report(rec))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
