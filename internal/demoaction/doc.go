// Package demoaction provides small, realistic task.Action implementations
// used by the pipeline loader and the demo CLI: a logger-backed Print
// action and a resty-backed HTTPGet action. Neither is part of the
// scheduler's core API — user code is expected to supply its own Actions;
// these exist so the library has something concrete to run end-to-end.
package demoaction
