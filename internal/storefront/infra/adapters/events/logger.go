package events

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher writes events to the log instead of a broker. Used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.logger.InfoContext(ctx, "event published", "routing_key", routingKey, "payload", payload)
	return nil
}
