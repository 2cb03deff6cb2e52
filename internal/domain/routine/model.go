package routine

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 100
	MaxExerciseLength = 100
	MaxNotesLength    = 2000
)

// A routine is organised into up to seven training days (0-indexed).
const MaxDays = 7

// Domain errors
var (
	ErrEmptyCoachID  = errors.New("routine coach ID cannot be empty")
	ErrEmptyName     = errors.New("routine name cannot be empty")
	ErrEmptyExercise = errors.New("exercise name cannot be empty")
	ErrInvalidDay    = errors.New("day index must be between 0 and 6")
	ErrInvalidSets   = errors.New("sets must be greater than zero")
	ErrItemNotFound  = errors.New("routine item not found")
	ErrInvalidTarget = errors.New("target position is out of range")
)

// Routine is a training plan a coach assigns to a client.
type Routine struct {
	ID        string
	CoachID   string
	ClientID  string // empty for a template not yet assigned
	Name      string
	Notes     string // markdown, rendered on the client view
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is one exercise slot inside a routine. Items are ordered by
// (DayIndex, Position); Position is dense and 0-indexed within a day.
type Item struct {
	ID          string
	RoutineID   string
	DayIndex    int // 0..6
	Position    int
	Exercise    string
	Sets        int
	Reps        string // free-form: "8-10", "AMRAP", "30s"
	RestSeconds int
	Notes       string
}

// Validate checks if the Routine has valid data.
// PRE: Routine struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Routine) Validate() error {
	if strings.TrimSpace(r.CoachID) == "" {
		return ErrEmptyCoachID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if len(r.Name) > MaxNameLength {
		return errors.New("routine name cannot exceed 100 characters")
	}
	if len(r.Notes) > MaxNotesLength {
		return errors.New("routine notes cannot exceed 2000 characters")
	}
	return nil
}

// Validate checks if the Item has valid data.
// PRE: Item struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: DayIndex in 0..6, Sets > 0
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Exercise) == "" {
		return ErrEmptyExercise
	}
	if len(i.Exercise) > MaxExerciseLength {
		return errors.New("exercise name cannot exceed 100 characters")
	}
	if i.DayIndex < 0 || i.DayIndex >= MaxDays {
		return ErrInvalidDay
	}
	if i.Sets <= 0 {
		return ErrInvalidSets
	}
	return nil
}
