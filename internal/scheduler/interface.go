package scheduler

import "github.com/leetcoder91/activities/internal/task"

// Observer is notified after every Task.Execute call within a pass: once
// per executed task, after all of its retries. Tasks skipped because they
// are disabled are not reported. It carries no scheduling authority — a panicking or slow observer is the
// caller's problem, not the scheduler's.
type Observer func(t *task.Task, outcome task.Outcome, err error)
