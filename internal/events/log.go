package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to a structured logger. It is the default sink when
// no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "activity",
		"type", string(event.Type),
		"actor", event.Actor,
		"subject", event.Subject,
		"at", event.At,
		"request_id", event.RequestID,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
