// Package config defines the process-wide options for the activity
// scheduler: pool sizing, retry limits, and debug diagnostics. Values come
// from defaults overridable by environment variables, the idiomatic Go
// analogue of the original system's Java system properties.
package config
