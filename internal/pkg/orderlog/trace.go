package orderlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/interceptors/constants"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings. Both are empty when there is no
// valid span, e.g. when tracing is disabled or in unit tests.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry with request and trace identifiers taken from ctx.
//
//	entry := orderlog.NewEntry(ctx, key, identity.SubjectID, orderlog.OutcomeAccepted, order.ID, nil)
//	_ = repo.Save(ctx, entry)
func NewEntry(ctx context.Context, key string, userID int64, outcome Outcome, orderID string, cause error) *Entry {
	ti := ExtractTraceInfo(ctx)
	requestID, _ := ctx.Value(constants.ContextKeyRequestID).(string)

	reason := ""
	if cause != nil {
		reason = cause.Error()
	}

	return &Entry{
		IdempotencyKey: key,
		UserID:         userID,
		OrderID:        orderID,
		Outcome:        outcome,
		Reason:         reason,
		RequestID:      requestID,
		TraceID:        ti.TraceID,
		SpanID:         ti.SpanID,
		RecordedAt:     time.Now().UTC(),
	}
}
