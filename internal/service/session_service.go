package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/auth"
	"github.com/spec-kit/session-auth-service/internal/events"
	"github.com/spec-kit/session-auth-service/internal/repository"
)

// SessionService signs callers in and out.
type SessionService struct {
	accounts repository.AccountRepository
	revoked  repository.RevocationRepository
	tokens   *auth.TokenCodec
	hasher   *auth.PasswordHasher
	events   emitter
	logger   *zap.Logger
	now      func() time.Time
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	Accounts    repository.AccountRepository
	Revocations repository.RevocationRepository
	Tokens      *auth.TokenCodec
	Hasher      *auth.PasswordHasher
	Events      events.Publisher
	Logger      *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{
		accounts: deps.Accounts,
		revoked:  deps.Revocations,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		logger:   logger,
		now:      time.Now,
	}
	s.events = emitter{publisher: deps.Events, logger: logger, now: s.clock}
	return s
}

func (s *SessionService) clock() time.Time { return s.now() }

// SignIn checks credentials and issues a token for the account.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (string, time.Time, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", time.Time{}, ErrAccountNotFound
		}
		return "", time.Time{}, fmt.Errorf("find account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", time.Time{}, ErrPasswordIncorrect
		}
		return "", time.Time{}, fmt.Errorf("compare password: %w", err)
	}

	token, exp, err := s.tokens.Issue(account.Email, account.Roles)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	s.events.emit(ctx, events.EventSessionSignedIn, account.Email)
	return token, exp, nil
}

// SignOut revokes rawAuthorization exactly as presented, scheme prefix
// included. The value is not parsed, so even a malformed one is recorded.
func (s *SessionService) SignOut(ctx context.Context, rawAuthorization string) error {
	if rawAuthorization == "" {
		return ErrUnauthenticated
	}

	if err := s.revoked.Add(ctx, rawAuthorization, s.now()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	subject, err := s.tokens.ExtractSubject(auth.TokenFromHeader(rawAuthorization))
	if err != nil {
		s.logger.Debug("revoked value carries no readable subject", zap.Error(err))
	}
	s.events.emit(ctx, events.EventSessionSignedOut, subject)
	return nil
}
