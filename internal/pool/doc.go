// Package pool implements the scheduler's priority-ordered worker pool.
//
// Submit accepts a job with a priority; jobs run in (priority desc, submit
// order asc) order. The pool follows an eager-spawn policy: while the
// number of live workers is below the configured maximum, a new worker is
// always spawned for an incoming job rather than handed to an existing
// idle worker, so bursts of independent work fan out across goroutines as
// fast as the cap allows. Once the cap is reached, jobs queue and idle
// workers pick them up in priority order. Workers above the configured
// core count that stay idle past the keep-alive window retire.
package pool
