package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountCreated   EventType = "account.created"
	EventAccountDeleted   EventType = "account.deleted"
	EventSessionSignedIn  EventType = "session.signed_in"
	EventSessionSignedOut EventType = "session.signed_out"
)

// Event is an account or session lifecycle fact. Token values are never
// carried, only the subject they belonged to when known.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Subject   string    `json:"subject,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps a fresh id.
func NewEvent(eventType EventType, subject string, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: at.UTC(),
	}
}
