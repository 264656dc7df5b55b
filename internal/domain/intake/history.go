package intake

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/apflow/backend/internal/domain/shared"
)

// IntakeRecord is the persisted audit row for one processing attempt.
// Stage payloads are stored as JSON snapshots so the row survives
// schema drift in the in-memory record.
type IntakeRecord struct {
	shared.BaseEntity
	SourceRef      string `gorm:"not null;index"`
	Filename       string
	Status         string `gorm:"not null;index"`
	Confidence     *float64
	SupplierName   string
	InvoiceNumber  string
	ExtractedJSON  string `gorm:"type:text"`
	ValidationJSON string `gorm:"type:text"`
	DecisionJSON   string `gorm:"type:text"`
	ErrorsJSON     string `gorm:"type:text"`
}

// NewIntakeRecord snapshots a terminal ProcessingRecord into an audit row
func NewIntakeRecord(rec *ProcessingRecord, filename string) (*IntakeRecord, error) {
	if rec == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "processing record is required")
	}

	row := &IntakeRecord{
		BaseEntity: shared.NewBaseEntity(),
		SourceRef:  rec.SourceRef,
		Filename:   filename,
		Status:     string(rec.Status),
		Confidence: rec.ExtractionConfidence,
	}

	if rec.Extracted != nil {
		if rec.Extracted.SupplierName != nil {
			row.SupplierName = *rec.Extracted.SupplierName
		}
		if rec.Extracted.InvoiceNumber != nil {
			row.InvoiceNumber = *rec.Extracted.InvoiceNumber
		}
		data, err := json.Marshal(rec.Extracted)
		if err != nil {
			return nil, fmt.Errorf("marshal extracted snapshot: %w", err)
		}
		row.ExtractedJSON = string(data)
	}

	if len(rec.ValidationResults) > 0 {
		data, err := json.Marshal(rec.ValidationResults)
		if err != nil {
			return nil, fmt.Errorf("marshal validation snapshot: %w", err)
		}
		row.ValidationJSON = string(data)
	}

	if rec.Decision != nil {
		data, err := json.Marshal(rec.Decision)
		if err != nil {
			return nil, fmt.Errorf("marshal decision snapshot: %w", err)
		}
		row.DecisionJSON = string(data)
	}

	if len(rec.Errors) > 0 {
		data, err := json.Marshal(rec.Errors)
		if err != nil {
			return nil, fmt.Errorf("marshal errors snapshot: %w", err)
		}
		row.ErrorsJSON = string(data)
	}

	return row, nil
}

// TableName returns the table name for GORM
func (IntakeRecord) TableName() string {
	return "intake_records"
}

// ReviewNotification asks a human to look at an attempt that did not
// post cleanly: rejections, aborts, and low-confidence extractions.
type ReviewNotification struct {
	shared.BaseEntity
	IntakeRecordID uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason         string    `gorm:"not null"`
	Message        string    `gorm:"not null"`
	Acknowledged   bool      `gorm:"not null;default:false"`
}

// Notification reasons
const (
	NotifyRejected      = "rejected"
	NotifyErrored       = "errored"
	NotifyLowConfidence = "low_confidence"
)

// NewReviewNotification creates an unacknowledged notification
func NewReviewNotification(intakeRecordID uuid.UUID, reason, message string) *ReviewNotification {
	return &ReviewNotification{
		BaseEntity:     shared.NewBaseEntity(),
		IntakeRecordID: intakeRecordID,
		Reason:         reason,
		Message:        message,
	}
}

// Acknowledge marks the notification as handled
func (n *ReviewNotification) Acknowledge() {
	n.Acknowledged = true
}

// TableName returns the table name for GORM
func (ReviewNotification) TableName() string {
	return "review_notifications"
}

// IntakeRecordRepository defines the interface for audit row persistence
type IntakeRecordRepository interface {
	// Save creates or updates an audit row
	Save(ctx context.Context, record *IntakeRecord) error

	// FindByID finds an audit row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*IntakeRecord, error)

	// FindAll lists audit rows newest first, paginated
	FindAll(ctx context.Context, page, pageSize int) ([]IntakeRecord, int64, error)
}

// NotificationRepository defines the interface for review notifications
type NotificationRepository interface {
	// Save creates or updates a notification
	Save(ctx context.Context, notification *ReviewNotification) error

	// FindAll lists notifications newest first, paginated
	FindAll(ctx context.Context, page, pageSize int) ([]ReviewNotification, int64, error)

	// FindUnacknowledged lists notifications still awaiting review
	FindUnacknowledged(ctx context.Context) ([]ReviewNotification, error)
}
