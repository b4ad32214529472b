package task

// Outcome is the result an Action reports for a single execution attempt.
type Outcome int

const (
	// Success means the action completed; the task remains enabled.
	Success Outcome = iota
	// Failure means the action did not complete and may be retried. If
	// retries are exhausted the task is disabled, the same as Disable.
	Failure
	// Disable means the action determined it should never run again; the
	// task is disabled immediately, with no retry.
	Disable
	// DisableOnce means the action should be skipped for the remainder of
	// the current pass only. The task's persistent enabled state is
	// untouched and is eligible to run again on the next pass.
	DisableOnce
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	case Disable:
		return "DISABLE"
	case DisableOnce:
		return "DISABLE_ONCE"
	default:
		return "UNKNOWN"
	}
}
