// Package store defines the persistence interfaces and shared errors for
// the data access layer. Concrete implementations live under
// internal/platform/postgres.
package store
