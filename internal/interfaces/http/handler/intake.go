package handler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/infrastructure/storage"
	"github.com/apflow/backend/internal/interfaces/http/dto"
)

// WorkflowRunner runs one document through the intake pipeline
type WorkflowRunner interface {
	Run(ctx context.Context, sourceRef string) *intake.ProcessingRecord
}

// allowedExtensions lists the upload file types accepted for extraction
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".bmp":  true,
	".txt":  true,
}

// IntakeHandler exposes the invoice intake pipeline over HTTP
type IntakeHandler struct {
	BaseHandler
	workflow      WorkflowRunner
	docs          storage.DocumentStore
	records       intake.IntakeRecordRepository
	notifications intake.NotificationRepository
	threshold     float64
	maxUploadSize int64
	logger        *zap.Logger
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(
	workflow WorkflowRunner,
	docs storage.DocumentStore,
	records intake.IntakeRecordRepository,
	notifications intake.NotificationRepository,
	threshold float64,
	maxUploadSize int64,
	logger *zap.Logger,
) *IntakeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeHandler{
		workflow:      workflow,
		docs:          docs,
		records:       records,
		notifications: notifications,
		threshold:     threshold,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// RegisterRoutes registers intake routes
func (h *IntakeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/upload", h.Upload)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
	}
	rg.GET("/notifications", h.ListNotifications)
}

// Upload accepts a multipart invoice document, stores it, and runs the
// intake pipeline to a terminal state before answering.
func (h *IntakeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "multipart field 'file' is required")
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		h.BadRequest(c, fmt.Sprintf("file exceeds maximum upload size of %d bytes", h.maxUploadSize))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUnsupportedFile), dto.ErrCodeUnsupportedFile,
			fmt.Sprintf("file type %q is not supported", ext))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	sourceRef := fmt.Sprintf("invoices/%s%s", uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.docs.Put(c.Request.Context(), sourceRef, data, contentType); err != nil {
		h.logger.Error("failed to store uploaded document",
			zap.String("source_ref", sourceRef), zap.Error(err))
		h.InternalError(c, "failed to store uploaded document")
		return
	}

	rec := h.workflow.Run(c.Request.Context(), sourceRef)

	row, err := intake.NewIntakeRecord(rec, fileHeader.Filename)
	if err != nil {
		h.InternalError(c, "failed to snapshot processing record")
		return
	}
	if err := h.records.Save(c.Request.Context(), row); err != nil {
		h.logger.Error("failed to persist intake record",
			zap.String("source_ref", sourceRef), zap.Error(err))
		h.InternalError(c, "failed to persist intake record")
		return
	}

	h.notifyIfReviewNeeded(c.Request.Context(), row, rec)

	h.Success(c, dto.UploadResponse{
		ID:        row.ID.String(),
		SourceRef: sourceRef,
		Record:    rec,
	})
}

// notifyIfReviewNeeded raises a review notification for rejected or
// errored attempts, and for low-confidence extractions even when they
// posted.
func (h *IntakeHandler) notifyIfReviewNeeded(ctx context.Context, row *intake.IntakeRecord, rec *intake.ProcessingRecord) {
	var reason, message string
	switch {
	case rec.Status == intake.StatusRejected:
		reason = intake.NotifyRejected
		message = fmt.Sprintf("invoice %s was rejected and needs manual review", row.ID)
	case rec.Status == intake.StatusErrored:
		reason = intake.NotifyErrored
		message = fmt.Sprintf("invoice %s could not be processed", row.ID)
	case rec.ExtractionConfidence != nil && rec.Confidence() < h.threshold:
		reason = intake.NotifyLowConfidence
		message = fmt.Sprintf("invoice %s was extracted with low confidence %.2f", row.ID, rec.Confidence())
	default:
		return
	}

	notification := intake.NewReviewNotification(row.ID, reason, message)
	if err := h.notifications.Save(ctx, notification); err != nil {
		// The intake result already committed; losing a notification is
		// logged, not surfaced to the uploader.
		h.logger.Error("failed to save review notification",
			zap.String("intake_record_id", row.ID.String()), zap.Error(err))
	}
}

// Get returns one intake record by id
func (h *IntakeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid intake record id")
		return
	}

	row, err := h.records.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewIntakeRecordResponse(row))
}

// List returns intake records newest first, paginated
func (h *IntakeHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	rows, total, err := h.records.FindAll(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.IntakeRecordResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, dto.NewIntakeRecordResponse(&rows[i]))
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// ListNotifications returns review notifications newest first, paginated
func (h *IntakeHandler) ListNotifications(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	notifications, total, err := h.notifications.FindAll(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.NewNotificationResponse(&notifications[i]))
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}
