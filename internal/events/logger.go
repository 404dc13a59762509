package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// zapLoggerAdapter routes watermill logs through zap.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter wraps logger for watermill components.
func NewZapLoggerAdapter(logger *zap.Logger) watermill.LoggerAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLoggerAdapter{logger: logger.Named("watermill")}
}

func (a *zapLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(toZapFields(fields), zap.Error(err))...)
}

func (a *zapLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, toZapFields(fields)...)
}

func (a *zapLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, toZapFields(fields)...)
}

// Trace maps to debug; zap has no lower level.
func (a *zapLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, toZapFields(fields)...)
}

func (a *zapLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zapLoggerAdapter{logger: a.logger.With(toZapFields(fields)...)}
}

func toZapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
