// Package sqlite provides a SQLite-backed implementation of orderlog.Repository.
//
// WAL mode is enabled on Open so that readers never block the request
// goroutines appending attempts.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/orderlog"

	// Pure-Go driver, no CGO needed in the container image.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only:
// each row is one placement attempt.
const schema = `
CREATE TABLE IF NOT EXISTS order_attempts (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Not UNIQUE: a duplicate attempt writes a second row for the same key.
    idempotency_key  TEXT    NOT NULL DEFAULT '',

    user_id          INTEGER NOT NULL,

    -- Empty unless outcome = ACCEPTED.
    order_id         TEXT    NOT NULL DEFAULT '',

    outcome          TEXT    NOT NULL,
    reason           TEXT    NOT NULL DEFAULT '',
    request_id       TEXT    NOT NULL DEFAULT '',
    trace_id         TEXT    NOT NULL DEFAULT '',
    span_id          TEXT    NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    recorded_at      TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_attempts_key ON order_attempts(idempotency_key, recorded_at);
CREATE INDEX IF NOT EXISTS idx_order_attempts_trace_id ON order_attempts(trace_id);
`

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ orderlog.Repository = (*Repository)(nil)

// Open opens (or creates) the SQLite database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new attempt. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_attempts
			(idempotency_key, user_id, order_id, outcome, reason, request_id, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.IdempotencyKey,
		entry.UserID,
		entry.OrderID,
		string(entry.Outcome),
		entry.Reason,
		entry.RequestID,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save attempt for key %q: %w", entry.IdempotencyKey, err)
	}
	return nil
}

// ListByKey returns every attempt made with key, oldest first.
func (r *Repository) ListByKey(ctx context.Context, key string) ([]orderlog.Entry, error) {
	const q = `
		SELECT idempotency_key, user_id, order_id, outcome, reason,
		       request_id, trace_id, span_id, recorded_at
		FROM   order_attempts
		WHERE  idempotency_key = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, key)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list attempts for key %q: %w", key, err)
	}
	defer rows.Close()

	var out []orderlog.Entry
	for rows.Next() {
		var (
			entry      orderlog.Entry
			recordedAt string
		)
		if err := rows.Scan(
			&entry.IdempotencyKey,
			&entry.UserID,
			&entry.OrderID,
			&entry.Outcome,
			&entry.Reason,
			&entry.RequestID,
			&entry.TraceID,
			&entry.SpanID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan attempt for key %q: %w", key, err)
		}
		if entry.RecordedAt, err = parseRFC3339(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate attempts for key %q: %w", key, err)
	}
	return out, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
