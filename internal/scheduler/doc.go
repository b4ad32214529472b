// Package scheduler builds a dependency graph of tasks and runs it either
// sequentially or in parallel behind a priority-ordered worker pool.
//
// A Scheduler owns a graph.Graph[*task.Task], a tag.Registry for grouping
// tasks, and (for parallel runs) a pool.Pool. Running a pass computes each
// task's depth (the length of its longest dependency chain), assigns
// priority as maxDepth-depth so root-adjacent work is preferred, and
// executes level by level: a whole level is submitted to the pool, the
// scheduler waits for every task in it to finish, and only then moves to
// the next level. A task that ends up disabled — whether by exhausting its
// retries, by reporting DISABLE, or by a caller's explicit Disable — has
// its disabled state propagated to every transitive dependent before the
// next level runs, so downstream work that can no longer succeed is never
// attempted.
package scheduler
