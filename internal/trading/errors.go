package trading

import (
	"context"
	"errors"
)

// Error kinds for one trading cycle. Callers branch with errors.Is to decide
// whether to abort the cycle, degrade, or just record the failure.
var (
	// ErrStorage: the ledger is unreachable or a write violated the schema.
	ErrStorage = errors.New("storage error")

	// ErrInference: the model API is unreachable, rate-limited, or returned
	// output that could not be used. The cycle aborts without an order.
	ErrInference = errors.New("inference error")

	// ErrValidation: the model responded, but the decision violates the
	// required schema or business constraints. Treated like ErrInference.
	ErrValidation = errors.New("validation error")

	// ErrExecution: the exchange rejected or failed the order. Non-fatal,
	// the cycle still persists its record with executed=false.
	ErrExecution = errors.New("execution error")

	// ErrTimeout: a collaborator call exceeded its deadline.
	ErrTimeout = errors.New("collaborator timeout")
)

// Abortable reports whether err means the cycle must stop before placing
// any order or writing a trade record.
func Abortable(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrInference) || errors.Is(err, ErrValidation)
}

// MapTimeout converts context deadline errors into ErrTimeout so callers
// see a single timeout kind regardless of which collaborator timed out.
func MapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}
