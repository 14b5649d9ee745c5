// Package orderlog defines the audit trail of order placement attempts.
//
// Every attempt to place an order leaves exactly one row, whether it
// produced an order or was turned away. The trail serves two purposes:
//
//  1. Support: answer "what happened to Idempotency-Key X" without
//     grepping logs, including attempts that were rejected as duplicates.
//
//  2. Observability: each row carries the trace_id of the request that
//     wrote it, so a row can be joined with its distributed trace.
package orderlog

import "time"

// Outcome is the result of a single placement attempt.
type Outcome string

const (
	OutcomeAccepted  Outcome = "ACCEPTED"
	OutcomeDuplicate Outcome = "DUPLICATE"
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeFailed    Outcome = "FAILED"
)

// Entry is a single row in the order_attempts table.
type Entry struct {
	// IdempotencyKey is the caller-supplied key; empty when the header was missing.
	IdempotencyKey string

	// UserID is the verified subject id of the caller.
	UserID int64

	// OrderID is set only for accepted attempts.
	OrderID string

	Outcome Outcome

	// Reason holds the error text for non-accepted attempts.
	Reason string

	RequestID string
	TraceID   string
	SpanID    string

	RecordedAt time.Time
}
