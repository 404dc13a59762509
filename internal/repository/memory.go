package repository

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/session-auth-service/internal/domain"
)

// MemoryAccountRepository is an in-process AccountRepository used when no
// database is configured. It enforces the same uniqueness and length rules
// as the accounts table.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	now      func() time.Time
}

// NewMemoryAccountRepository constructs an empty store.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]domain.Account), now: time.Now}
}

func (r *MemoryAccountRepository) Save(_ context.Context, account *domain.Account) error {
	if utf8.RuneCountInString(account.Email) > domain.MaxEmailLength ||
		utf8.RuneCountInString(account.PasswordHash) > domain.MaxPasswordHashLength {
		return ErrFieldTooLong
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.Email]; exists {
		return ErrDuplicateAccount
	}
	account.CreatedAt = r.now()
	stored := *account
	stored.Roles = append([]string(nil), account.Roles...)
	r.accounts[account.Email] = stored
	return nil
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	stored.Roles = append([]string(nil), stored.Roles...)
	return &stored, nil
}

func (r *MemoryAccountRepository) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[email]; !ok {
		return ErrAccountNotFound
	}
	delete(r.accounts, email)
	return nil
}

// MemoryRevocationRepository is an in-process RevocationRepository.
type MemoryRevocationRepository struct {
	mu      sync.RWMutex
	records map[string]domain.RevokedToken
	seq     int64
}

// NewMemoryRevocationRepository constructs an empty store.
func NewMemoryRevocationRepository() *MemoryRevocationRepository {
	return &MemoryRevocationRepository{records: make(map[string]domain.RevokedToken)}
}

func (r *MemoryRevocationRepository) Add(_ context.Context, token string, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[token]; exists {
		return nil
	}
	r.seq++
	r.records[token] = domain.RevokedToken{ID: r.seq, Token: token, AddedDate: revokedAt}
	return nil
}

func (r *MemoryRevocationRepository) Contains(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[token]
	return ok, nil
}

func (r *MemoryRevocationRepository) Find(_ context.Context, token string) (*domain.RevokedToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[token]
	if !ok {
		return nil, ErrNotRevoked
	}
	return &record, nil
}

// Len reports how many distinct tokens are revoked.
func (r *MemoryRevocationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
