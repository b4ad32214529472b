// Package task wraps a caller-supplied Action with the execute-once-at-a-
// time guard, bounded retry loop, and enable/disable bookkeeping the
// scheduler relies on.
package task
