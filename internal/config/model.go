package config

// Options controls the behavior of the scheduler's worker pool, retry
// policy, and diagnostics.
type Options struct {
	// MaxActivityPoolSize bounds the number of worker goroutines the
	// priority pool will spawn for a parallel execution pass.
	MaxActivityPoolSize int

	// MaxActivityRetry bounds how many times a task wrapper will retry an
	// Action that reports a retryable failure before disabling the task.
	MaxActivityRetry int

	// DebugOperations, when true, makes the scheduler log a GraphViz DOT
	// dump of the current vertex set before each execution pass.
	DebugOperations bool
}

// Default mirrors the original system's defaults: a pool of 20 workers, up
// to 5 retries per task, and diagnostics off.
func Default() Options {
	return Options{
		MaxActivityPoolSize: 20,
		MaxActivityRetry:    5,
		DebugOperations:     false,
	}
}
