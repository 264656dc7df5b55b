// Package intake models one invoice's journey through the pipeline:
// extraction, cross-validation against master data, and the final
// post/reject/abort decision.
package intake

import (
	"github.com/shopspring/decimal"
)

// Status mirrors the state machine state of a processing attempt
type Status string

const (
	StatusPending   Status = "pending"
	StatusExtracted Status = "extracted"
	StatusValidated Status = "validated"
	StatusPosted    Status = "posted"
	StatusRejected  Status = "rejected"
	StatusErrored   Status = "errored"
)

// IsTerminal reports whether no further transitions exist for this attempt
func (s Status) IsTerminal() bool {
	return s == StatusPosted || s == StatusRejected || s == StatusErrored
}

// LineItem is one invoice line as extracted from the document
type LineItem struct {
	Description string           `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal   *decimal.Decimal `json:"line_total,omitempty"`
}

// ExtractedInvoice carries the fields the extractor managed to read from
// one document. Every field is optional: a nil pointer means the field
// was not extracted at all, which validators treat differently from an
// empty value.
type ExtractedInvoice struct {
	SupplierName   *string          `json:"supplier_name,omitempty"`
	TaxID          *string          `json:"tax_id,omitempty"`
	RegistrationID *string          `json:"registration_id,omitempty"`
	BankAccount    *string          `json:"bank_account,omitempty"`
	BankRouting    *string          `json:"bank_routing,omitempty"`
	PONumber       *string          `json:"po_number,omitempty"`
	InvoiceNumber  *string          `json:"invoice_number,omitempty"`
	InvoiceDate    *string          `json:"invoice_date,omitempty"`
	LineItems      []LineItem       `json:"line_items,omitempty"`
	NetTotal       *decimal.Decimal `json:"net_total,omitempty"`
	TaxRate        *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxAmount      *decimal.Decimal `json:"tax_amount,omitempty"`
	GrossTotal     *decimal.Decimal `json:"gross_total,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
}

// ValidationOutcome is the result of one field check
type ValidationOutcome struct {
	Field   string         `json:"field"`
	Valid   bool           `json:"valid"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// DecisionKind enumerates the terminal decision of one attempt
type DecisionKind string

const (
	DecisionPosted   DecisionKind = "posted"
	DecisionRejected DecisionKind = "rejected"
	DecisionAborted  DecisionKind = "aborted"
)

// Decision is the terminal outcome payload of one processing attempt
type Decision struct {
	Kind     DecisionKind     `json:"kind"`
	PostedID string           `json:"posted_id,omitempty"`
	Message  string           `json:"message,omitempty"`
	Report   *RejectionReport `json:"report,omitempty"`
	Errors   []string         `json:"errors,omitempty"`
}

// FieldFailure names one failing field with its reason
type FieldFailure struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// RejectionReport is the structured explanation handed to a human when
// an invoice is not posted
type RejectionReport struct {
	Rejected       bool           `json:"rejected"`
	InvoiceNumber  string         `json:"invoice_number"`
	SupplierName   string         `json:"supplier_name"`
	FailureCount   int            `json:"failure_count"`
	Failures       []FieldFailure `json:"failures"`
	Recommendation string         `json:"recommendation"`
}

// ProcessingRecord is the unit of work. It is owned by a single workflow
// instance and mutated in place as the attempt moves through stages.
type ProcessingRecord struct {
	SourceRef            string              `json:"source_ref"`
	Extracted            *ExtractedInvoice   `json:"extracted,omitempty"`
	ExtractionConfidence *float64            `json:"extraction_confidence,omitempty"`
	ValidationResults    []ValidationOutcome `json:"validation_results"`
	AllPassed            bool                `json:"all_passed"`
	Decision             *Decision           `json:"decision,omitempty"`
	Status               Status              `json:"status"`
	Errors               []string            `json:"errors,omitempty"`
}

// NewProcessingRecord creates a pending record for a source document
func NewProcessingRecord(sourceRef string) *ProcessingRecord {
	return &ProcessingRecord{
		SourceRef:         sourceRef,
		ValidationResults: []ValidationOutcome{},
		Status:            StatusPending,
	}
}

// Confidence returns the extraction confidence, defaulting to 1.0 when
// the extractor did not report one. Unscored extractions are trusted.
func (r *ProcessingRecord) Confidence() float64 {
	if r.ExtractionConfidence == nil {
		return 1.0
	}
	return *r.ExtractionConfidence
}

// AppendError appends a diagnostic to the record. Diagnostics are
// append-only and never cleared.
func (r *ProcessingRecord) AppendError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// FailingOutcomes returns the failing validation outcomes in their
// recorded order
func (r *ProcessingRecord) FailingOutcomes() []ValidationOutcome {
	var failing []ValidationOutcome
	for _, out := range r.ValidationResults {
		if !out.Valid {
			failing = append(failing, out)
		}
	}
	return failing
}
