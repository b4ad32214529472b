package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leetcoder91/activities/internal/task"
)

// ErrInvalidAction is returned by Create when given a nil Action.
var ErrInvalidAction = errors.New("scheduler: invalid action")

// CyclicDependenciesError is returned by ExecuteAll/ExecuteFiltered when
// the task set being run contains a dependency cycle.
type CyclicDependenciesError struct {
	Task *task.Task
}

func (e *CyclicDependenciesError) Error() string {
	return fmt.Sprintf("scheduler: cyclic dependency detected at task %q", e.Task.Name())
}

// CancelledError is returned when a run stops because its context was
// cancelled before every task finished.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("scheduler: execution cancelled: %v", e.Cause)
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// TaskFailure records one task whose Execute call returned
// task.ErrAlreadyExecuting within a pass. Ordinary Failure or Disable
// outcomes are not recorded here; they show up as disabled tasks.
type TaskFailure struct {
	Task    *task.Task
	Outcome task.Outcome
	Err     error
}

// TaskFailedError aggregates every TaskFailure observed during a pass.
type TaskFailedError struct {
	Failures []TaskFailure
}

func (e *TaskFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s (%v)", f.Task.Name(), f.Outcome, f.Err))
	}
	return fmt.Sprintf("scheduler: %d task(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}
