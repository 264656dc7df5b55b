package intake

import (
	"github.com/apflow/backend/internal/domain/intake"
)

// RemediationInstruction is the fixed guidance attached to every
// rejection report.
const RemediationInstruction = "Please verify the flagged fields with the supplier and update the master data if needed before resubmitting the invoice."

// Reporter turns a validated-but-not-posted record into a structured
// rejection report. It is deterministic and never touches the store.
type Reporter struct{}

// NewReporter creates a rejection reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report builds the rejection report from the record's failing
// outcomes, in their recorded order. Extracted identifiers fall back to
// "unknown" when absent.
func (r *Reporter) Report(rec *intake.ProcessingRecord) *intake.RejectionReport {
	invoiceNumber := "unknown"
	supplierName := "unknown"
	if rec.Extracted != nil {
		if rec.Extracted.InvoiceNumber != nil {
			invoiceNumber = *rec.Extracted.InvoiceNumber
		}
		if rec.Extracted.SupplierName != nil {
			supplierName = *rec.Extracted.SupplierName
		}
	}

	failures := make([]intake.FieldFailure, 0)
	for _, out := range rec.FailingOutcomes() {
		failures = append(failures, intake.FieldFailure{
			Field:  out.Field,
			Reason: out.Message,
		})
	}

	return &intake.RejectionReport{
		Rejected:       true,
		InvoiceNumber:  invoiceNumber,
		SupplierName:   supplierName,
		FailureCount:   len(failures),
		Failures:       failures,
		Recommendation: RemediationInstruction,
	}
}
