package dispatcher

import (
	"context"
	"errors"

	"github.com/dshills/actionwire/internal/op"
)

// Applier applies whole batches through a dispatcher.
type Applier struct {
	dispatcher *Dispatcher
	policy     FailurePolicy
}

// NewApplier creates an applier using the dispatcher's failure policy.
func NewApplier(d *Dispatcher) *Applier {
	return &Applier{dispatcher: d, policy: d.Config().FailurePolicy}
}

// NewApplierWithPolicy creates an applier with an explicit failure policy.
func NewApplierWithPolicy(d *Dispatcher, policy FailurePolicy) *Applier {
	return &Applier{dispatcher: d, policy: policy}
}

// Dispatcher returns the dispatcher records are applied through.
func (a *Applier) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// Policy returns the applier's failure policy.
func (a *Applier) Policy() FailurePolicy {
	return a.policy
}

// ApplyAll dispatches each record of batch in order. Record i+1 is not
// started until record i's handler has returned.
//
// Failures are wrapped in *BatchError. Under PolicyAbort the first failure
// is returned at once; under PolicyContinue all failures are joined.
// A cancelled context stops the batch before the next record.
func (a *Applier) ApplyAll(ctx context.Context, batch op.Batch) error {
	if m := a.dispatcher.Metrics(); m != nil {
		m.RecordBatch(len(batch))
	}

	var errs []error
	for i, rec := range batch {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := a.dispatcher.Dispatch(ctx, rec); err != nil {
			berr := &BatchError{Index: i, Type: rec.Type(), Err: err}
			if a.policy == PolicyAbort {
				return berr
			}
			errs = append(errs, berr)
		}
	}
	return errors.Join(errs...)
}
