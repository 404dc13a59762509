package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/session-auth-service/internal/domain"
)

// Verification failures. Callers outside the gate may branch on these; the gate
// collapses all of them into one unauthorized response.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

var signingMethod = jwt.SigningMethodHS256

// TokenCodec issues and verifies signed session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec builds a codec signing with secret; tokens live for ttl.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the token payload.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TTL returns the validity window applied at issuance.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue signs a token for subject carrying roles. The returned time is the
// embedded expiry.
func (tc *TokenCodec) Issue(subject string, roles []string) (string, time.Time, error) {
	issuedAt := jwt.NewNumericDate(tc.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(tc.ttl))

	identity := domain.NewIdentity(subject, roles)
	claims := &Claims{
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.Time, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// It does not know about revocation.
func (tc *TokenCodec) Verify(token string) (domain.Identity, error) {
	claims, err := tc.parse(token, jwt.WithExpirationRequired(), jwt.WithTimeFunc(tc.now))
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.NewIdentity(claims.Subject, claims.Roles), nil
}

// ExtractSubject returns the subject of a well-formed, correctly signed token
// without applying the time-based checks.
func (tc *TokenCodec) ExtractSubject(token string) (string, error) {
	claims, err := tc.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (tc *TokenCodec) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append([]jwt.ParserOption{jwt.WithValidMethods([]string{signingMethod.Alg()})}, opts...)

	claims := &Claims{}
	parsed, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return tc.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
