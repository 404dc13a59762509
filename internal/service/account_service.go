package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/session-auth-service/internal/auth"
	"github.com/spec-kit/session-auth-service/internal/domain"
	"github.com/spec-kit/session-auth-service/internal/events"
	"github.com/spec-kit/session-auth-service/internal/repository"
)

// AccountService registers and removes accounts.
type AccountService struct {
	accounts repository.AccountRepository
	hasher   *auth.PasswordHasher
	sessions *SessionService
	events   emitter
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	Accounts repository.AccountRepository
	Hasher   *auth.PasswordHasher
	Sessions *SessionService
	Events   events.Publisher
	Logger   *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts: deps.Accounts,
		hasher:   deps.Hasher,
		sessions: deps.Sessions,
		events:   emitter{publisher: deps.Events, logger: logger, now: time.Now},
	}
}

// SignUp creates an account holding the default user role.
func (s *AccountService) SignUp(ctx context.Context, email, password string) (*domain.Account, error) {
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{domain.RoleUser},
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateAccount):
			return nil, ErrDuplicateAccount
		case errors.Is(err, repository.ErrFieldTooLong):
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.events.emit(ctx, events.EventAccountCreated, account.Email)
	return account, nil
}

// Delete revokes the token used to ask, then removes the account of email. A
// failed revocation leaves the account in place.
func (s *AccountService) Delete(ctx context.Context, email, rawAuthorization string) error {
	if err := s.sessions.SignOut(ctx, rawAuthorization); err != nil {
		return err
	}

	if err := s.accounts.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}

	s.events.emit(ctx, events.EventAccountDeleted, email)
	return nil
}
