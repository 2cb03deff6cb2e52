package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coachdesk/internal/domain/checkin"
	"coachdesk/internal/domain/client"

	"github.com/google/uuid"
)

// CheckInStore defines the store interface needed by RecordCheckIn.
type CheckInStore interface {
	Save(ctx context.Context, c checkin.CheckIn) error
}

// ClientStoreForCheckIn resolves the client submitting a check-in.
type ClientStoreForCheckIn interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
}

// RecordCheckInInput carries input for the orchestrator.
type RecordCheckInInput struct {
	ClientID string
	Date     time.Time
	WeightKg float64
	Mood     string
	Notes    string
	PhotoURL string
}

// RecordCheckInDeps holds dependencies for RecordCheckIn.
type RecordCheckInDeps struct {
	CheckInStore CheckInStore
	ClientStore  ClientStoreForCheckIn
	Now          func() time.Time
}

var ErrClientNotActive = errors.New("client is not active")

// ExecuteRecordCheckIn stores a dated progress report from the athlete app.
// PRE: ClientID refers to an active client
// POST: CheckIn persisted with generated ID
func ExecuteRecordCheckIn(ctx context.Context, input RecordCheckInInput, deps RecordCheckInDeps) (string, error) {
	cl, err := deps.ClientStore.GetByID(ctx, input.ClientID)
	if err != nil {
		return "", errors.New("client not found")
	}
	if !cl.IsActive() {
		return "", ErrClientNotActive
	}

	ci := checkin.CheckIn{
		ID:        uuid.New().String(),
		ClientID:  input.ClientID,
		Date:      input.Date,
		WeightKg:  input.WeightKg,
		Mood:      input.Mood,
		Notes:     input.Notes,
		PhotoURL:  input.PhotoURL,
		CreatedAt: deps.Now(),
	}

	if err := ci.Validate(); err != nil {
		return "", err
	}

	if err := deps.CheckInStore.Save(ctx, ci); err != nil {
		return "", err
	}

	slog.Info("checkin_event", "event", "checkin_recorded", "checkin_id", ci.ID, "client_id", input.ClientID, "mood", input.Mood)

	return ci.ID, nil
}
