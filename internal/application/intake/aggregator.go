package intake

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/refdata"
)

// Aggregator fans the five field checks out against one extraction and
// collects their outcomes in fixed order: supplier, tax_id,
// registration_id, supplier_bank, purchase_order.
type Aggregator struct {
	checks []FieldCheck
	logger *zap.Logger
}

// NewAggregator wires the standard five checks against the given stores
func NewAggregator(suppliers refdata.SupplierRepository, orders refdata.PurchaseOrderRepository, logger *zap.Logger) *Aggregator {
	return NewAggregatorWithChecks(logger,
		NewSupplierIdentityCheck(suppliers),
		NewTaxIDCheck(suppliers),
		NewRegistrationIDCheck(suppliers),
		NewBankPairCheck(suppliers),
		NewPurchaseOrderCheck(orders),
	)
}

// NewAggregatorWithChecks builds an aggregator over an explicit check
// set. The outcome order follows the argument order.
func NewAggregatorWithChecks(logger *zap.Logger, checks ...FieldCheck) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{checks: checks, logger: logger}
}

// Validate runs every check and records one outcome per check on the
// record, in the fixed check order regardless of completion order.
// Missing extracted fields never produce an error; the only error is
// the store being unreachable, which leaves the record untouched so
// the caller can abort the attempt.
func (a *Aggregator) Validate(ctx context.Context, rec *intake.ProcessingRecord) error {
	outcomes := make([]intake.ValidationOutcome, len(a.checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, check := range a.checks {
		i, check := i, check
		g.Go(func() error {
			out, err := check.Check(gctx, rec.Extracted)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	allPassed := true
	for _, out := range outcomes {
		if !out.Valid {
			allPassed = false
			a.logger.Info("field check failed",
				zap.String("source_ref", rec.SourceRef),
				zap.String("field", out.Field),
				zap.String("reason", out.Message))
		}
	}

	rec.ValidationResults = outcomes
	rec.AllPassed = allPassed

	a.logger.Info("validation complete",
		zap.String("source_ref", rec.SourceRef),
		zap.Bool("all_passed", allPassed),
		zap.Int("checks", len(outcomes)))
	return nil
}
