package client

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxGoalLength = 500
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusArchived = "archived"
)

// Domain errors
var (
	ErrAlreadyArchived = errors.New("client is already archived")
	ErrNotArchived     = errors.New("client is not archived")
)

// Client holds state for one athlete on a coach's roster.
type Client struct {
	ID        string
	CoachID   string // owning coach account ID
	AccountID string // athlete login account, empty until invited
	Name      string
	Email     string
	Phone     string
	Goal      string // free-text training goal
	Status    string
	CreatedAt time.Time
}

// Validate checks if the Client has valid data.
// PRE: Client struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (c *Client) Validate() error {
	if strings.TrimSpace(c.CoachID) == "" {
		return errors.New("client coach ID cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("client name cannot be empty")
	}
	if len(c.Name) > MaxNameLength {
		return errors.New("client name cannot exceed 100 characters")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("client email must be valid")
	}
	if len(c.Goal) > MaxGoalLength {
		return errors.New("client goal cannot exceed 500 characters")
	}
	if c.Status != StatusActive && c.Status != StatusPaused && c.Status != StatusArchived {
		return errors.New("status must be 'active', 'paused', or 'archived'")
	}
	return nil
}

// IsActive returns true if the client is currently active.
// INVARIANT: Status field is not mutated
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// Archive sets the client status to archived.
// PRE: Client is not already archived
// POST: Status is set to archived
func (c *Client) Archive() error {
	if c.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	c.Status = StatusArchived
	return nil
}

// Restore sets an archived client back to active.
// PRE: Client is currently archived
// POST: Status is set to active
func (c *Client) Restore() error {
	if c.Status != StatusArchived {
		return ErrNotArchived
	}
	c.Status = StatusActive
	return nil
}
