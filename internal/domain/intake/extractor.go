package intake

import "context"

// Extraction is what the extractor collaborator produces for one
// document: the structured fields it could read plus an optional
// confidence score. A nil Confidence means the extractor did not score
// its own output.
type Extraction struct {
	Invoice    *ExtractedInvoice `json:"extracted"`
	Confidence *float64          `json:"confidence,omitempty"`
}

// Extractor turns a stored source document into an Extraction. Any
// returned error is non-retryable for the current attempt and aborts
// processing before validation.
type Extractor interface {
	Extract(ctx context.Context, sourceRef string) (*Extraction, error)
}
