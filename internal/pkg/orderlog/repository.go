package orderlog

import "context"

// Repository is the port for persisting placement attempts.
// The order service depends on this abstraction, not on SQLite directly.
type Repository interface {
	// Save appends a row; the log is never updated in place.
	Save(ctx context.Context, entry *Entry) error
}
