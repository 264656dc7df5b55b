package dto

import (
	"encoding/json"
	"time"

	"github.com/apflow/backend/internal/domain/intake"
)

// UploadResponse is returned after an invoice document has been
// processed to a terminal state
type UploadResponse struct {
	ID        string                   `json:"id"`
	SourceRef string                   `json:"source_ref"`
	Record    *intake.ProcessingRecord `json:"record"`
}

// IntakeRecordResponse is the API shape of a stored intake audit row.
// Stage snapshots are passed through as raw JSON.
type IntakeRecordResponse struct {
	ID                string          `json:"id"`
	SourceRef         string          `json:"source_ref"`
	Filename          string          `json:"filename,omitempty"`
	Status            string          `json:"status"`
	Confidence        *float64        `json:"confidence,omitempty"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	InvoiceNumber     string          `json:"invoice_number,omitempty"`
	Extracted         json.RawMessage `json:"extracted,omitempty"`
	ValidationResults json.RawMessage `json:"validation_results,omitempty"`
	Decision          json.RawMessage `json:"decision,omitempty"`
	Errors            json.RawMessage `json:"errors,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewIntakeRecordResponse converts an audit row to its API shape
func NewIntakeRecordResponse(row *intake.IntakeRecord) IntakeRecordResponse {
	resp := IntakeRecordResponse{
		ID:            row.ID.String(),
		SourceRef:     row.SourceRef,
		Filename:      row.Filename,
		Status:        row.Status,
		Confidence:    row.Confidence,
		SupplierName:  row.SupplierName,
		InvoiceNumber: row.InvoiceNumber,
		CreatedAt:     row.CreatedAt,
	}
	if row.ExtractedJSON != "" {
		resp.Extracted = json.RawMessage(row.ExtractedJSON)
	}
	if row.ValidationJSON != "" {
		resp.ValidationResults = json.RawMessage(row.ValidationJSON)
	}
	if row.DecisionJSON != "" {
		resp.Decision = json.RawMessage(row.DecisionJSON)
	}
	if row.ErrorsJSON != "" {
		resp.Errors = json.RawMessage(row.ErrorsJSON)
	}
	return resp
}

// NotificationResponse is the API shape of a review notification
type NotificationResponse struct {
	ID             string    `json:"id"`
	IntakeRecordID string    `json:"intake_record_id"`
	Reason         string    `json:"reason"`
	Message        string    `json:"message"`
	Acknowledged   bool      `json:"acknowledged"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification to its API shape
func NewNotificationResponse(n *intake.ReviewNotification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID.String(),
		IntakeRecordID: n.IntakeRecordID.String(),
		Reason:         n.Reason,
		Message:        n.Message,
		Acknowledged:   n.Acknowledged,
		CreatedAt:      n.CreatedAt,
	}
}
