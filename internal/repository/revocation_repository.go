package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/session-auth-service/internal/domain"
)

// ErrNotRevoked is returned by Find for a token that was never revoked.
var ErrNotRevoked = errors.New("token not revoked")

// RevocationRepository persists revoked token strings. Add is idempotent and
// Contains is an exact string match.
type RevocationRepository interface {
	Add(ctx context.Context, token string, revokedAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
	Find(ctx context.Context, token string) (*domain.RevokedToken, error)
}

type revocationRepository struct {
	pool *pgxpool.Pool
}

// NewRevocationRepository returns a Postgres-backed implementation.
func NewRevocationRepository(pool *pgxpool.Pool) RevocationRepository {
	return &revocationRepository{pool: pool}
}

func (r *revocationRepository) Add(ctx context.Context, token string, revokedAt time.Time) error {
	const query = `
        INSERT INTO revoked_tokens (token, token_hash, added_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (token_hash) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, token, tokenHash(token), revokedAt)
	return err
}

func (r *revocationRepository) Contains(ctx context.Context, token string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM revoked_tokens WHERE token_hash=$1 AND token=$2
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, tokenHash(token), token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *revocationRepository) Find(ctx context.Context, token string) (*domain.RevokedToken, error) {
	const query = `
        SELECT id, token, added_at
        FROM revoked_tokens WHERE token_hash=$1 AND token=$2`

	var record domain.RevokedToken
	if err := r.pool.QueryRow(ctx, query, tokenHash(token), token).Scan(
		&record.ID,
		&record.Token,
		&record.AddedDate,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotRevoked
		}
		return nil, err
	}
	return &record, nil
}

// tokenHash indexes arbitrarily long token strings with a fixed-width key.
func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
