// Package extraction adapts a remote field-extraction service to the
// intake Extractor contract. What the service does with the document
// (OCR, layout models) is its own business; this client only moves
// bytes out and fields back.
package extraction

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/infrastructure/config"
	"github.com/apflow/backend/internal/infrastructure/storage"
)

// Client calls the extraction service over HTTP
type Client struct {
	http   *resty.Client
	docs   storage.DocumentStore
	logger *zap.Logger
}

var _ intake.Extractor = (*Client)(nil)

// NewClient creates an extraction client against the configured service
func NewClient(cfg *config.ExtractorConfig, docs storage.DocumentStore, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount)

	return &Client{http: httpClient, docs: docs, logger: logger}
}

// Extract loads the stored document and submits it for field
// extraction. Any failure, including a missing document, aborts the
// current attempt; the caller does not retry.
func (c *Client) Extract(ctx context.Context, sourceRef string) (*intake.Extraction, error) {
	data, contentType, err := c.docs.Get(ctx, sourceRef)
	if err != nil {
		return nil, fmt.Errorf("loading document %q: %w", sourceRef, err)
	}

	var result intake.Extraction
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("document", sourceRef, bytes.NewReader(data)).
		SetFormData(map[string]string{"content_type": contentType}).
		SetResult(&result).
		Post("/v1/extract")
	if err != nil {
		return nil, fmt.Errorf("extraction request for %q failed: %w", sourceRef, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("extraction service returned %s for %q", resp.Status(), sourceRef)
	}
	if result.Invoice == nil {
		return nil, fmt.Errorf("extraction service returned no fields for %q", sourceRef)
	}

	c.logger.Info("document extracted",
		zap.String("source_ref", sourceRef),
		zap.Bool("scored", result.Confidence != nil))
	return &result, nil
}
