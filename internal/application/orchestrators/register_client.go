package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coachdesk/internal/adapters/email"
	"coachdesk/internal/domain/client"

	"github.com/google/uuid"
)

// ClientStore defines the interface for client persistence.
type ClientStore interface {
	Save(ctx context.Context, c client.Client) error
	GetByID(ctx context.Context, id string) (client.Client, error)
}

// RegisterClientInput carries input for the orchestrator.
type RegisterClientInput struct {
	CoachID string
	Name    string
	Email   string
	Phone   string
	Goal    string
}

// RegisterClientDeps holds dependencies for RegisterClient.
type RegisterClientDeps struct {
	ClientStore ClientStore
	Email       email.Sender
	Now         func() time.Time
}

// ExecuteRegisterClient adds a new client to a coach's roster and sends a
// welcome email. A failed send is logged but does not undo the registration.
// PRE: Valid email, non-empty name, non-empty coach ID
// POST: Client created with ID, Status=active; welcome email attempted
func ExecuteRegisterClient(ctx context.Context, input RegisterClientInput, deps RegisterClientDeps) (string, error) {
	if input.CoachID == "" {
		return "", errors.New("coach ID cannot be empty")
	}
	if input.Name == "" {
		return "", errors.New("name cannot be empty")
	}
	if input.Email == "" {
		return "", errors.New("email cannot be empty")
	}

	c := client.Client{
		ID:        uuid.New().String(),
		CoachID:   input.CoachID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Goal:      input.Goal,
		Status:    client.StatusActive,
		CreatedAt: deps.Now(),
	}

	if err := c.Validate(); err != nil {
		return "", err
	}

	if err := deps.ClientStore.Save(ctx, c); err != nil {
		return "", err
	}

	slog.Info("roster_event", "event", "client_registered", "client_id", c.ID, "coach_id", input.CoachID)

	_, err := deps.Email.Send(ctx, email.SendRequest{
		To:      []string{c.Email},
		Subject: "Welcome to your coaching programme",
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your coach has added you to their roster. "+
			"You'll receive your training schedule and check-in requests here.</p>", c.Name),
	})
	if err != nil {
		slog.Error("roster_event", "event", "welcome_email_failed", "client_id", c.ID, "error", err)
	}

	return c.ID, nil
}
