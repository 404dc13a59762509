package domain

import "time"

// RevokedToken records a token string that must never be accepted again.
type RevokedToken struct {
	ID        int64
	Token     string
	AddedDate time.Time
}
