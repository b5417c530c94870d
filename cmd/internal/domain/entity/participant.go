package entity

import "strings"

type Status string

const (
	StatusAvailable Status = "Available"
	StatusBusy      Status = "Busy"
	StatusAway      Status = "Away"
	StatusOffline   Status = "Offline"
)

// IsPresent reports whether the status counts as active time.
// Gather sends capitalized values, but we don't rely on it.
func (s Status) IsPresent() bool {
	return strings.EqualFold(string(s), string(StatusAvailable)) ||
		strings.EqualFold(string(s), string(StatusBusy))
}

// Participant is a single player of a Gather space, as seen by the presence feed.
type Participant struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required,notsentinel"`
	Status       Status `json:"status" validate:"required,present"`
	DisplayEmail string `json:"displayEmail"`
}

// PresenceSnapshot maps a session participant id to its current state.
// It's re-fetched every tick and never mutated.
type PresenceSnapshot map[string]*Participant
