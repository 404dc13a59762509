package domain

import "time"

// Column limits enforced by the accounts table.
const (
	MaxEmailLength        = 50
	MaxPasswordHashLength = 300
)

// RoleUser is granted to every account at sign-up.
const RoleUser = "ROLE_USER"

// Account is a registered principal. Email doubles as the token subject.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// Identity returns the claims embedded in tokens issued for the account.
func (a *Account) Identity() Identity {
	return NewIdentity(a.Email, a.Roles)
}
