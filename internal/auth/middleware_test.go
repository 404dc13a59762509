package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-auth-service/internal/domain"
	apperrors "github.com/spec-kit/session-auth-service/pkg/util"
)

type stubRevocations struct {
	mu      sync.Mutex
	tokens  map[string]struct{}
	err     error
	queried []string
}

func (s *stubRevocations) Contains(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queried = append(s.queried, token)
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.tokens[token]
	return ok, nil
}

func newGateApp(t *testing.T, gate *Gate, extra ...fiber.Handler) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	app.Use(gate.Handle)
	app.Post("/sign-in", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	handlers := append(extra, func(c *fiber.Ctx) error {
		identity, ok := IdentityFromFiber(c)
		fromCtx, okCtx := IdentityFromContext(c.UserContext())
		if !ok || !okCtx || identity.Subject != fromCtx.Subject {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(identity.Subject)
	})
	app.Get("/detail", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGate_States(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	token, _, err := codec.Issue("a@b.com", []string{domain.RoleUser})
	require.NoError(t, err)

	expiredCodec, _ := newTestCodec(time.Now().Add(-2*time.Hour), time.Minute)
	expired, _, err := expiredCodec.Issue("a@b.com", []string{domain.RoleUser})
	require.NoError(t, err)

	revocations := &stubRevocations{tokens: map[string]struct{}{}}
	app := newGateApp(t, NewGate(codec, revocations, []string{"/sign-in"}, nil, nil))

	tests := []struct {
		name          string
		authorization string
		want          int
	}{
		{name: "no token", authorization: "", want: http.StatusUnauthorized},
		{name: "garbage", authorization: "A.A.A", want: http.StatusUnauthorized},
		{name: "expired", authorization: expired, want: http.StatusUnauthorized},
		{name: "raw token admitted", authorization: token, want: http.StatusOK},
		{name: "bearer token admitted", authorization: "Bearer " + token, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doGet(t, app, "/detail", tt.authorization)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGate_RevokedTokenRejectedThoughCodecAccepts(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	token, _, err := codec.Issue("a@b.com", []string{domain.RoleUser})
	require.NoError(t, err)

	revocations := &stubRevocations{tokens: map[string]struct{}{token: {}}}
	app := newGateApp(t, NewGate(codec, revocations, nil, nil, nil))

	_, err = codec.Verify(token)
	require.NoError(t, err)

	resp := doGet(t, app, "/detail", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGate_RevocationLookupUsesRawHeader(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	token, _, err := codec.Issue("a@b.com", []string{domain.RoleUser})
	require.NoError(t, err)

	revocations := &stubRevocations{tokens: map[string]struct{}{"Bearer " + token: {}}}
	app := newGateApp(t, NewGate(codec, revocations, nil, nil, nil))

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/detail", "Bearer "+token).StatusCode)
	// The bare form was never revoked, so it is still admitted.
	assert.Equal(t, http.StatusOK, doGet(t, app, "/detail", token).StatusCode)
	assert.Equal(t, []string{"Bearer " + token, token}, revocations.queried)
}

func TestGate_StoreFailureFailsClosed(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	token, _, err := codec.Issue("a@b.com", []string{domain.RoleUser})
	require.NoError(t, err)

	revocations := &stubRevocations{err: errors.New("connection refused")}
	app := newGateApp(t, NewGate(codec, revocations, nil, nil, nil))

	resp := doGet(t, app, "/detail", token)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGate_InvalidTokenSkipsStore(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	revocations := &stubRevocations{tokens: map[string]struct{}{}}
	app := newGateApp(t, NewGate(codec, revocations, nil, nil, nil))

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/detail", "A.A.A").StatusCode)
	assert.Empty(t, revocations.queried)
}

func TestGate_PublicPathsBypass(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	gate := NewGate(codec, &stubRevocations{}, []string{"/sign-in", "/health/live"}, nil, nil)
	app := newGateApp(t, gate)

	req := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, gate.IsPublic("/Sign-In/"))
	assert.True(t, gate.IsPublic("/health/live"))
	assert.False(t, gate.IsPublic("/detail"))
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", TokenFromHeader("bearer abc"))
	assert.Equal(t, "abc", TokenFromHeader("abc"))
	assert.Equal(t, "Bearer ", TokenFromHeader("Bearer "))
}

func TestRequireRole(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Minute)
	userToken, _, err := codec.Issue("a@b.com", []string{domain.RoleUser})
	require.NoError(t, err)
	noRoleToken, _, err := codec.Issue("b@b.com", nil)
	require.NoError(t, err)

	app := newGateApp(t, NewGate(codec, &stubRevocations{}, nil, nil, nil), RequireRole(domain.RoleUser))

	assert.Equal(t, http.StatusOK, doGet(t, app, "/detail", userToken).StatusCode)
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/detail", noRoleToken).StatusCode)
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/", RequireRole(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/", "").StatusCode)
}
