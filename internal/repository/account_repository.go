package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/session-auth-service/internal/domain"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation      = "23505"
	pgStringDataTruncation = "22001"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account email already exists")
	ErrFieldTooLong     = errors.New("value exceeds column length")
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Save(ctx context.Context, account *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Save(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, email, password_hash, roles)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Roles,
	).Scan(&account.CreatedAt)
	return translatePgError(err)
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, roles, created_at
        FROM accounts WHERE email=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Roles,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) DeleteByEmail(ctx context.Context, email string) error {
	const query = `DELETE FROM accounts WHERE email=$1`

	cmd, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, pgErr.ConstraintName)
	case pgStringDataTruncation:
		return fmt.Errorf("%w: %s", ErrFieldTooLong, pgErr.Message)
	}
	return err
}
