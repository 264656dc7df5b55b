package intake

import (
	"context"
	"fmt"

	"github.com/qmuntal/stateless"
	"go.uber.org/zap"

	"github.com/apflow/backend/internal/domain/intake"
)

// DefaultConfidenceThreshold is the extraction confidence an invoice
// must strictly exceed to be posted. Exactly at the threshold rejects.
const DefaultConfidenceThreshold = 0.8

// State machine triggers
const (
	triggerExtractSucceeded = "extract_succeeded"
	triggerExtractFailed    = "extract_failed"
	triggerValidationDone   = "validation_done"
	triggerPostSucceeded    = "post_succeeded"
	triggerPostRefused      = "post_refused"
	triggerRejected         = "rejected"
	triggerStoreUnreachable = "store_unreachable"
)

// Workflow drives one processing attempt through the state machine
// Pending → Extracted → Validated → {Posted, Rejected, Errored}. Each
// invocation of Run owns its record and machine, so independent
// documents can be processed concurrently.
type Workflow struct {
	extractor  intake.Extractor
	aggregator *Aggregator
	poster     *Poster
	reporter   *Reporter
	logger     *zap.Logger
	threshold  float64
}

// NewWorkflow wires the workflow. All collaborators are required; a
// missing one is a programming error and fails construction.
func NewWorkflow(extractor intake.Extractor, aggregator *Aggregator, poster *Poster, reporter *Reporter, logger *zap.Logger) (*Workflow, error) {
	if extractor == nil {
		return nil, fmt.Errorf("workflow requires an extractor")
	}
	if aggregator == nil {
		return nil, fmt.Errorf("workflow requires a validation aggregator")
	}
	if poster == nil {
		return nil, fmt.Errorf("workflow requires a posting engine")
	}
	if reporter == nil {
		return nil, fmt.Errorf("workflow requires a rejection reporter")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		extractor:  extractor,
		aggregator: aggregator,
		poster:     poster,
		reporter:   reporter,
		logger:     logger,
		threshold:  DefaultConfidenceThreshold,
	}, nil
}

// WithConfidenceThreshold overrides the posting confidence gate
func (w *Workflow) WithConfidenceThreshold(threshold float64) *Workflow {
	w.threshold = threshold
	return w
}

// Run processes one source document to a terminal state and returns the
// fully populated record. Business failures are terminal states on the
// record, never errors; the caller inspects Status and Decision.
func (w *Workflow) Run(ctx context.Context, sourceRef string) *intake.ProcessingRecord {
	rec := intake.NewProcessingRecord(sourceRef)
	machine := w.newMachine(rec)

	w.logger.Info("intake started", zap.String("source_ref", sourceRef))

	extraction, err := w.extractor.Extract(ctx, sourceRef)
	if err != nil || extraction == nil || extraction.Invoice == nil {
		if err == nil {
			err = fmt.Errorf("extractor returned no invoice")
		}
		rec.AppendError(fmt.Sprintf("extraction failed: %v", err))
		rec.Decision = &intake.Decision{
			Kind:    intake.DecisionAborted,
			Message: "extraction failed",
			Errors:  rec.Errors,
		}
		w.fire(ctx, machine, rec, triggerExtractFailed)
		return rec
	}

	rec.Extracted = extraction.Invoice
	rec.ExtractionConfidence = extraction.Confidence
	if !w.fire(ctx, machine, rec, triggerExtractSucceeded) {
		return rec
	}

	if err := w.aggregator.Validate(ctx, rec); err != nil {
		rec.AppendError(fmt.Sprintf("validation aborted: %v", err))
		rec.Decision = &intake.Decision{
			Kind:    intake.DecisionAborted,
			Message: "reference data store unreachable",
			Errors:  rec.Errors,
		}
		w.fire(ctx, machine, rec, triggerStoreUnreachable)
		return rec
	}
	if !w.fire(ctx, machine, rec, triggerValidationDone) {
		return rec
	}

	if routeAfterValidation(rec.AllPassed, rec.Confidence(), w.threshold) == intake.StatusPosted {
		w.post(ctx, machine, rec)
	} else {
		w.reject(ctx, machine, rec)
	}
	return rec
}

func (w *Workflow) post(ctx context.Context, machine *stateless.StateMachine, rec *intake.ProcessingRecord) {
	result, err := w.poster.Post(ctx, rec)
	if err != nil {
		rec.AppendError(fmt.Sprintf("posting aborted: %v", err))
		rec.Decision = &intake.Decision{
			Kind:    intake.DecisionAborted,
			Message: "reference data store unreachable",
			Errors:  rec.Errors,
		}
		w.fire(ctx, machine, rec, triggerStoreUnreachable)
		return
	}
	if !result.Success {
		rec.AppendError(fmt.Sprintf("posting refused: %s", result.Message))
		rec.Decision = &intake.Decision{
			Kind:    intake.DecisionAborted,
			Message: result.Message,
			Errors:  rec.Errors,
		}
		w.fire(ctx, machine, rec, triggerPostRefused)
		return
	}

	rec.Decision = &intake.Decision{
		Kind:     intake.DecisionPosted,
		PostedID: result.PostedID,
		Message:  result.Message,
	}
	w.fire(ctx, machine, rec, triggerPostSucceeded)
}

func (w *Workflow) reject(ctx context.Context, machine *stateless.StateMachine, rec *intake.ProcessingRecord) {
	report := w.reporter.Report(rec)
	rec.Decision = &intake.Decision{
		Kind:    intake.DecisionRejected,
		Message: fmt.Sprintf("invoice rejected with %d field failure(s)", report.FailureCount),
		Report:  report,
	}
	w.fire(ctx, machine, rec, triggerRejected)
}

// routeAfterValidation picks the post-validation target state. Posting
// requires every check to pass and the confidence to strictly exceed
// the threshold; a confidence exactly at the threshold rejects.
func routeAfterValidation(allPassed bool, confidence, threshold float64) intake.Status {
	if allPassed && confidence > threshold {
		return intake.StatusPosted
	}
	return intake.StatusRejected
}

func (w *Workflow) newMachine(rec *intake.ProcessingRecord) *stateless.StateMachine {
	machine := stateless.NewStateMachine(intake.StatusPending)

	machine.Configure(intake.StatusPending).
		Permit(triggerExtractSucceeded, intake.StatusExtracted).
		Permit(triggerExtractFailed, intake.StatusErrored)

	machine.Configure(intake.StatusExtracted).
		OnEntry(w.enterState(rec, intake.StatusExtracted)).
		Permit(triggerValidationDone, intake.StatusValidated).
		Permit(triggerStoreUnreachable, intake.StatusErrored)

	machine.Configure(intake.StatusValidated).
		OnEntry(w.enterState(rec, intake.StatusValidated)).
		Permit(triggerPostSucceeded, intake.StatusPosted).
		Permit(triggerRejected, intake.StatusRejected).
		Permit(triggerPostRefused, intake.StatusErrored).
		Permit(triggerStoreUnreachable, intake.StatusErrored)

	machine.Configure(intake.StatusPosted).
		OnEntry(w.enterState(rec, intake.StatusPosted))

	machine.Configure(intake.StatusRejected).
		OnEntry(w.enterState(rec, intake.StatusRejected))

	machine.Configure(intake.StatusErrored).
		OnEntry(w.enterState(rec, intake.StatusErrored))

	return machine
}

// enterState syncs the record status with the machine state
func (w *Workflow) enterState(rec *intake.ProcessingRecord, status intake.Status) func(context.Context, ...any) error {
	return func(_ context.Context, _ ...any) error {
		rec.Status = status
		w.logger.Info("intake state changed",
			zap.String("source_ref", rec.SourceRef),
			zap.String("status", string(status)))
		return nil
	}
}

// fire advances the machine. An unhandled trigger is a wiring bug; the
// record is forced to errored so the attempt still terminates.
func (w *Workflow) fire(ctx context.Context, machine *stateless.StateMachine, rec *intake.ProcessingRecord, trigger string) bool {
	if err := machine.FireCtx(ctx, trigger); err != nil {
		rec.AppendError(fmt.Sprintf("state machine rejected trigger %q: %v", trigger, err))
		rec.Status = intake.StatusErrored
		return false
	}
	return true
}
