package worker

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/events"
)

// Source delivers raw bus messages.
type Source interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// Handler consumes decoded events.
type Handler interface {
	Handle(ctx context.Context, event events.Event) error
}

// RunAuditWorker feeds bus events to handler until ctx is cancelled or the
// subscription closes. Undecodable messages are acked and dropped; handler
// failures are nacked so the bus can redeliver them.
func RunAuditWorker(ctx context.Context, source Source, handler Handler, logger *zap.Logger) error {
	if source == nil || handler == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	msgs, err := source.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			event, err := events.Decode(msg)
			if err != nil {
				logger.Warn("dropping undecodable event", zap.String("message_uuid", msg.UUID), zap.Error(err))
				msg.Ack()
				continue
			}
			if err := handler.Handle(msg.Context(), event); err != nil {
				logger.Error("event handler failed", zap.String("event_id", event.ID), zap.Error(err))
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}
}
