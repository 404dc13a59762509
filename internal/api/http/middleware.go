package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/auth"
	"github.com/spec-kit/session-auth-service/internal/observability"
	apperrors "github.com/spec-kit/session-auth-service/pkg/util"
)

// RegisterMiddlewares attaches the global chain in order: request id, request
// logging, error rendering, request timeout and finally the auth gate.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, gate *auth.Gate) {
	app.Use(requestid.New(requestid.Config{Header: observability.RequestIDHeader}))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	if gate != nil {
		app.Use(gate.Handle)
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, err, logger, metrics)
			}
		}()
		return c.Next()
	}
}

func renderError(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
	}
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
}
