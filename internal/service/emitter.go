package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/events"
)

// emitter publishes lifecycle events on a best-effort basis; a failed publish
// is logged and never fails the calling operation.
type emitter struct {
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func (e emitter) emit(ctx context.Context, eventType events.EventType, subject string) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, events.NewEvent(eventType, subject, e.now())); err != nil {
		e.logger.Warn("publish event failed",
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}
