package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/session-auth-service/internal/domain"
)

// Token is kept as bytes so JSON base64-encodes it and arbitrary values,
// invalid UTF-8 included, round-trip unchanged.
type redisRevocation struct {
	ID      int64     `json:"id"`
	Token   []byte    `json:"token"`
	AddedAt time.Time `json:"added_at"`
}

type redisRevocationRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRevocationRepository keeps revoked tokens under prefix+sha256(token).
// Keys are written without expiry.
func NewRedisRevocationRepository(client redis.UniversalClient, prefix string) RevocationRepository {
	return &redisRevocationRepository{client: client, prefix: prefix}
}

func (r *redisRevocationRepository) Add(ctx context.Context, token string, revokedAt time.Time) error {
	key := r.key(token)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check revocation: %w", err)
	}
	if exists > 0 {
		return nil
	}

	id, err := r.client.Incr(ctx, r.prefix+"seq").Result()
	if err != nil {
		return fmt.Errorf("allocate revocation id: %w", err)
	}
	payload, err := json.Marshal(redisRevocation{ID: id, Token: []byte(token), AddedAt: revokedAt.UTC()})
	if err != nil {
		return err
	}

	// SETNX keeps the first record if two sign-outs race on the same token.
	if err := r.client.SetNX(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}
	return nil
}

func (r *redisRevocationRepository) Contains(ctx context.Context, token string) (bool, error) {
	_, err := r.Find(ctx, token)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotRevoked):
		return false, nil
	default:
		return false, err
	}
}

func (r *redisRevocationRepository) Find(ctx context.Context, token string) (*domain.RevokedToken, error) {
	raw, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotRevoked
		}
		return nil, fmt.Errorf("lookup revocation: %w", err)
	}

	var record redisRevocation
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode revocation: %w", err)
	}
	if string(record.Token) != token {
		return nil, ErrNotRevoked
	}
	return &domain.RevokedToken{ID: record.ID, Token: string(record.Token), AddedDate: record.AddedAt}, nil
}

func (r *redisRevocationRepository) key(token string) string {
	return r.prefix + tokenHash(token)
}
