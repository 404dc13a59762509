package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/events"
	"github.com/spec-kit/session-auth-service/internal/observability"
)

// AuditService records account and session lifecycle events.
type AuditService struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{logger: logger.Named("audit"), metrics: metrics}
}

// Handle logs one event.
func (a *AuditService) Handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("subject", event.Subject),
		zap.Time("at", event.Timestamp),
	}

	switch event.Type {
	case events.EventAccountCreated:
		a.logger.Info("AccountCreated", fields...)
	case events.EventAccountDeleted:
		a.logger.Info("AccountDeleted", fields...)
	case events.EventSessionSignedIn:
		a.logger.Info("SessionSignedIn", fields...)
	case events.EventSessionSignedOut:
		a.logger.Info("SessionSignedOut", fields...)
	default:
		a.logger.Warn("unknown event", append(fields, zap.String("type", string(event.Type)))...)
	}

	a.metrics.RecordEvent(string(event.Type))
	return nil
}
