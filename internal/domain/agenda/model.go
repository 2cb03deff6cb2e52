package agenda

import (
	"errors"
	"strings"
	"time"
)

// Event kind constants.
const (
	KindTraining = "training" // one-on-one or group session
	KindCheckIn  = "check-in" // scheduled progress review
	KindCall     = "call"     // video/phone call
)

// ValidKinds contains all valid event kind values.
var ValidKinds = []string{KindTraining, KindCheckIn, KindCall}

// Max length constants for user-editable fields.
const (
	MaxTitleLength    = 200
	MaxLocationLength = 200
	MaxNotesLength    = 2000
)

// DraftID is the sentinel ID carried by an event that has not been persisted
// yet. Store-assigned IDs are UUIDs, so the empty string can never collide
// with a real ID. The sentinel must be replaced by the store-assigned ID
// immediately after insert; IDs are never generated optimistically on the
// caller side.
const DraftID = ""

// Domain errors.
var (
	ErrEmptyOwnerID    = errors.New("event owner ID cannot be empty")
	ErrEmptyTitle      = errors.New("event title cannot be empty")
	ErrInvalidKind     = errors.New("event kind must be 'training', 'check-in' or 'call'")
	ErrZeroTimestamp   = errors.New("event timestamp is required")
	ErrInvalidDuration = errors.New("event duration must be greater than zero")
	ErrTitleTooLong    = errors.New("event title cannot exceed 200 characters")
	ErrLocationTooLong = errors.New("event location cannot exceed 200 characters")
	ErrNotesTooLong    = errors.New("event notes cannot exceed 2000 characters")
)

// Event represents one entry on a coach's weekly agenda.
// Timestamp is the only persisted temporal field; grid coordinates are always
// recomputed from it so the two representations cannot drift.
// INVARIANT: DurationHours > 0. Kind is one of ValidKinds.
type Event struct {
	ID            string // DraftID ("") until the store assigns one
	OwnerID       string // coach account ID
	Title         string
	Kind          string // controls display colour only, no behavioural branching
	Timestamp     time.Time
	DurationHours float64 // fractional hours allowed, 0.5h UI granularity
	Location      string
	Notes         string
	CreatedAt     time.Time
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.OwnerID) == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if !isValidKind(e.Kind) {
		return ErrInvalidKind
	}
	if e.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	if e.DurationHours <= 0 {
		return ErrInvalidDuration
	}
	if len(e.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if len(e.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// IsDraft returns true if the event has not been persisted yet.
func (e *Event) IsDraft() bool {
	return e.ID == DraftID
}

func isValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}
