package dto

import "time"

// AccountRequest is the payload for sign-up and sign-in.
type AccountRequest struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// AccountResponse describes a newly created account.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries an issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DetailResponse describes the authenticated caller.
type DetailResponse struct {
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}
