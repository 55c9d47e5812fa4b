// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All statement errors are mapped onto the shared
// store sentinel errors so callers never see driver-level error types.
package postgres
