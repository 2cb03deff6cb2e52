package workout

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxExerciseLength = 100
	MaxNotesLength    = 500
)

// Domain errors
var (
	ErrEmptyClientID = errors.New("workout client ID cannot be empty")
	ErrEmptyExercise = errors.New("workout exercise cannot be empty")
	ErrInvalidReps   = errors.New("reps must be greater than zero")
	ErrInvalidWeight = errors.New("weight cannot be negative")
	ErrZeroDate      = errors.New("workout date is required")
)

// Set is one logged set from the athlete app: a client performed an exercise
// for some reps at some weight on a date, optionally against a routine item.
type Set struct {
	ID            string
	ClientID      string
	RoutineItemID string // empty for ad-hoc work outside the assigned routine
	Exercise      string
	Reps          int
	WeightKg      float64 // 0 for bodyweight work
	Date          time.Time
	Notes         string
	CreatedAt     time.Time
}

// Validate checks if the Set has valid data.
// PRE: Set struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Set) Validate() error {
	if strings.TrimSpace(s.ClientID) == "" {
		return ErrEmptyClientID
	}
	if strings.TrimSpace(s.Exercise) == "" {
		return ErrEmptyExercise
	}
	if len(s.Exercise) > MaxExerciseLength {
		return errors.New("workout exercise cannot exceed 100 characters")
	}
	if s.Reps <= 0 {
		return ErrInvalidReps
	}
	if s.WeightKg < 0 {
		return ErrInvalidWeight
	}
	if s.Date.IsZero() {
		return ErrZeroDate
	}
	if len(s.Notes) > MaxNotesLength {
		return errors.New("workout notes cannot exceed 500 characters")
	}
	return nil
}

// Volume returns the tonnage of the set (reps x weight).
// INVARIANT: Set fields are not mutated
func (s *Set) Volume() float64 {
	return float64(s.Reps) * s.WeightKg
}
