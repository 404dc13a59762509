package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/domain"
	"github.com/spec-kit/session-auth-service/internal/observability"
	apperrors "github.com/spec-kit/session-auth-service/pkg/util"
)

const identityKey = "auth_identity"

type identityCtxKey struct{}

// Gate rejection stages, used as metric labels.
const (
	stageMissing    = "missing"
	stageInvalid    = "invalid"
	stageRevoked    = "revoked"
	stageStoreError = "store_error"
)

// RevocationChecker answers whether a raw token string was revoked.
type RevocationChecker interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// Gate authenticates every request outside the public allow-list.
type Gate struct {
	tokens  *TokenCodec
	revoked RevocationChecker
	public  map[string]struct{}
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewGate constructs the gate. publicPaths bypass authentication entirely.
func NewGate(tokens *TokenCodec, revoked RevocationChecker, publicPaths []string, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[normalizePath(p)] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{tokens: tokens, revoked: revoked, public: public, logger: logger, metrics: metrics}
}

// Handle enforces authentication. The token is verified with any Bearer scheme
// stripped, but the revocation lookup uses the header value exactly as sent.
func (g *Gate) Handle(c *fiber.Ctx) error {
	if g.IsPublic(c.Path()) {
		return c.Next()
	}

	raw := c.Get(fiber.HeaderAuthorization)
	if raw == "" {
		return g.reject(stageMissing)
	}

	identity, err := g.tokens.Verify(TokenFromHeader(raw))
	if err != nil {
		g.logger.Debug("token rejected", zap.Error(err))
		return g.reject(stageInvalid)
	}

	revoked, err := g.revoked.Contains(c.UserContext(), raw)
	if err != nil {
		g.metrics.RecordGateRejection(stageStoreError)
		g.logger.Error("revocation lookup failed", zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return g.reject(stageRevoked)
	}

	SetIdentity(c, identity)
	return c.Next()
}

// IsPublic reports whether path is on the allow-list.
func (g *Gate) IsPublic(path string) bool {
	_, ok := g.public[normalizePath(path)]
	return ok
}

func (g *Gate) reject(stage string) error {
	g.metrics.RecordGateRejection(stage)
	return apperrors.NewUnauthorized()
}

// TokenFromHeader strips an optional Bearer scheme from an Authorization value.
func TokenFromHeader(raw string) string {
	const scheme = "bearer "
	if len(raw) > len(scheme) && strings.EqualFold(raw[:len(scheme)], scheme) {
		return strings.TrimSpace(raw[len(scheme):])
	}
	return raw
}

// SetIdentity attaches identity to the request for downstream handlers.
func SetIdentity(c *fiber.Ctx, identity domain.Identity) {
	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
}

// IdentityFromFiber retrieves the authenticated identity.
func IdentityFromFiber(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext retrieves the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}

func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
