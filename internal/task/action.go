package task

import "context"

// Action is the caller-supplied unit of work a Task wraps. Implementations
// live outside this module entirely — the scheduler never constructs one.
type Action interface {
	// Perform runs one attempt of the action. A non-nil error is carried
	// alongside the outcome for diagnostics; it does not by itself change
	// how the outcome is interpreted.
	Perform(ctx context.Context) (Outcome, error)
	// CanRetry reports whether a Failure outcome from the last Perform call
	// should be retried. It is consulted only when Perform just returned
	// Failure; it has no effect on Success, Disable, or DisableOnce.
	CanRetry() bool
	// IsEnabled reports the action's own enablement, independent of the
	// task wrapper's enabled flag. Task.Enabled() requires both to be true.
	IsEnabled() bool
}

// ActionFunc adapts a plain perform function to the Action interface, with
// fixed answers for the rest of the contract: always retryable, always
// enabled. It exists for tests and trivial one-off actions.
type ActionFunc func(ctx context.Context) (Outcome, error)

func (f ActionFunc) Perform(ctx context.Context) (Outcome, error) { return f(ctx) }
func (f ActionFunc) CanRetry() bool                               { return true }
func (f ActionFunc) IsEnabled() bool                              { return true }
