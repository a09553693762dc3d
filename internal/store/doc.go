// Package store persists run results in SQLite. Runs are
// content-addressed: the primary key is the SHA-256 of the record's
// canonical JSON, so replaying the same result is a no-op.
package store
