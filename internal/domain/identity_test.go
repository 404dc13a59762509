package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity_OrderedSet(t *testing.T) {
	id := NewIdentity("a@b.com", []string{"ROLE_USER", "ROLE_ADMIN", "ROLE_USER"})

	assert.Equal(t, "a@b.com", id.Subject)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, id.Roles)
	assert.True(t, id.HasRole("ROLE_ADMIN"))
	assert.False(t, id.HasRole("ROLE_OPS"))
}

func TestNewIdentity_CopiesRoles(t *testing.T) {
	roles := []string{"ROLE_USER"}
	id := NewIdentity("a@b.com", roles)
	roles[0] = "ROLE_ADMIN"

	assert.Equal(t, []string{"ROLE_USER"}, id.Roles)
}

func TestAccount_Identity(t *testing.T) {
	acc := &Account{Email: "a@b.com", Roles: []string{RoleUser}}
	assert.Equal(t, Identity{Subject: "a@b.com", Roles: []string{RoleUser}}, acc.Identity())
}
