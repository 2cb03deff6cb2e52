package checkin

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNotesLength    = 2000
	MaxPhotoURLLength = 2048
)

// Mood constants for the athlete's self-reported state.
const (
	MoodGreat = "great"
	MoodOK    = "ok"
	MoodTired = "tired"
	MoodSore  = "sore"
)

// ValidMoods contains all valid mood values.
var ValidMoods = []string{MoodGreat, MoodOK, MoodTired, MoodSore}

// Domain errors
var (
	ErrEmptyClientID = errors.New("check-in client ID cannot be empty")
	ErrZeroDate      = errors.New("check-in date is required")
	ErrInvalidWeight = errors.New("check-in weight cannot be negative")
	ErrInvalidMood   = errors.New("mood must be 'great', 'ok', 'tired' or 'sore'")
)

// CheckIn is a dated progress report from the athlete app. PhotoURL is a
// reference into hosted file storage; the file itself is never handled here.
type CheckIn struct {
	ID        string
	ClientID  string
	Date      time.Time
	WeightKg  float64 // 0 means not reported
	Mood      string  // empty means not reported
	Notes     string
	PhotoURL  string
	CreatedAt time.Time
}

// Validate checks if the CheckIn has valid data.
// PRE: CheckIn struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *CheckIn) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return ErrEmptyClientID
	}
	if c.Date.IsZero() {
		return ErrZeroDate
	}
	if c.WeightKg < 0 {
		return ErrInvalidWeight
	}
	if c.Mood != "" && !isValidMood(c.Mood) {
		return ErrInvalidMood
	}
	if len(c.Notes) > MaxNotesLength {
		return errors.New("check-in notes cannot exceed 2000 characters")
	}
	if len(c.PhotoURL) > MaxPhotoURLLength {
		return errors.New("check-in photo URL cannot exceed 2048 characters")
	}
	return nil
}

func isValidMood(mood string) bool {
	for _, m := range ValidMoods {
		if m == mood {
			return true
		}
	}
	return false
}
