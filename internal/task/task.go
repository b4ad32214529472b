package task

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyExecuting is returned by Execute when the task is re-entered
// while a prior execution of the same task is still in flight.
var ErrAlreadyExecuting = errors.New("task: already executing")

// Task wraps an Action with the state a scheduler needs to run it safely
// and to track whether it is still eligible to run.
type Task struct {
	name   string
	action Action

	mu              sync.Mutex
	executing       bool
	enabled         bool
	disabledForPass bool
	priority        int
}

// New creates a task wrapping action. The task starts enabled with
// priority 0.
func New(name string, action Action) *Task {
	return &Task{name: name, action: action, enabled: true}
}

// Name returns the task's display name, used in diagnostics and DOT dumps.
func (t *Task) Name() string {
	return t.name
}

// Action returns the wrapped action.
func (t *Task) Action() Action {
	return t.action
}

// IsExecuting reports whether the task's action is currently mid-Execute.
func (t *Task) IsExecuting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.executing
}

// Priority is a scheduler-supplied tie-breaker among tasks that become
// runnable at the same time. Higher runs first. It does not affect
// dependency ordering, only contention for worker-pool slots.
func (t *Task) Priority() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.priority
}

// SetPriority sets the task's priority tie-breaker.
func (t *Task) SetPriority(p int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.priority = p
}

// Enabled reports whether the task is eligible to run: persistently
// enabled, not disabled for the current pass, and its action itself still
// reports being enabled.
func (t *Task) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && !t.disabledForPass && t.action.IsEnabled()
}

// Disable permanently disables the task, unless it is currently executing.
// It returns the resulting enabled state, so a caller can tell whether the
// request took effect.
func (t *Task) Disable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.executing {
		t.enabled = false
	}
	return t.enabled
}

// BeginPass clears any pass-scoped DISABLE_ONCE from a previous run. The
// scheduler calls this once per task at the start of every
// executeAll/executeFiltered pass.
func (t *Task) BeginPass() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disabledForPass = false
}

// Execute runs the wrapped action, retrying on Failure up to maxRetries
// times before disabling the task. It returns ErrAlreadyExecuting without
// touching enabled state if the task is already mid-execution.
func (t *Task) Execute(ctx context.Context, maxRetries int) (Outcome, error) {
	t.mu.Lock()
	if t.executing {
		t.mu.Unlock()
		return Failure, ErrAlreadyExecuting
	}
	if !(t.enabled && !t.disabledForPass && t.action.IsEnabled()) {
		t.mu.Unlock()
		return Disable, nil
	}
	t.executing = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.executing = false
		t.mu.Unlock()
	}()

	var outcome Outcome
	var err error
	for attempt := 0; ; attempt++ {
		outcome, err = t.action.Perform(ctx)
		if outcome != Failure || !t.action.CanRetry() {
			break
		}
		if attempt >= maxRetries {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	t.applyOutcome(outcome)
	return outcome, err
}

func (t *Task) applyOutcome(outcome Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch outcome {
	case Failure, Disable:
		t.enabled = false
	case DisableOnce:
		t.disabledForPass = true
	case Success:
		// no state change
	}
}
