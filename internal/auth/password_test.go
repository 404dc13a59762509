package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)
	assert.LessOrEqual(t, len(hash), 300)

	require.NoError(t, h.Compare(hash, "password"))
	assert.ErrorIs(t, h.Compare(hash, "wrong password"), ErrPasswordMismatch)
}

func TestPasswordHasher_CorruptHashIsNotMismatch(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	err := h.Compare("not-a-bcrypt-hash", "password")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestPasswordHasher_CostClamped(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).cost)
}

func TestPasswordHasher_ByteLimit(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("p", MaxPasswordBytes))
	require.NoError(t, err)

	// 25 runes, 100 bytes.
	_, err = h.Hash(strings.Repeat("😀", 25))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
