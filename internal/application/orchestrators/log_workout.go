package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coachdesk/internal/domain/client"
	"coachdesk/internal/domain/workout"

	"github.com/google/uuid"
)

// WorkoutStore defines the store interface needed by LogWorkoutSet.
type WorkoutStore interface {
	Save(ctx context.Context, s workout.Set) error
}

// ClientStoreForWorkout resolves the client logging a set.
type ClientStoreForWorkout interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
}

// LogWorkoutSetInput carries input for the orchestrator.
type LogWorkoutSetInput struct {
	ClientID      string
	RoutineItemID string
	Exercise      string
	Reps          int
	WeightKg      float64
	Date          time.Time
	Notes         string
}

// LogWorkoutSetDeps holds dependencies for LogWorkoutSet.
type LogWorkoutSetDeps struct {
	WorkoutStore WorkoutStore
	ClientStore  ClientStoreForWorkout
	Now          func() time.Time
}

// ExecuteLogWorkoutSet records one performed set from the athlete app.
// PRE: ClientID refers to an active client; exercise and reps are valid
// POST: Set persisted with generated ID
func ExecuteLogWorkoutSet(ctx context.Context, input LogWorkoutSetInput, deps LogWorkoutSetDeps) (string, error) {
	cl, err := deps.ClientStore.GetByID(ctx, input.ClientID)
	if err != nil {
		return "", errors.New("client not found")
	}
	if !cl.IsActive() {
		return "", ErrClientNotActive
	}

	set := workout.Set{
		ID:            uuid.New().String(),
		ClientID:      input.ClientID,
		RoutineItemID: input.RoutineItemID,
		Exercise:      input.Exercise,
		Reps:          input.Reps,
		WeightKg:      input.WeightKg,
		Date:          input.Date,
		Notes:         input.Notes,
		CreatedAt:     deps.Now(),
	}

	if err := set.Validate(); err != nil {
		return "", err
	}

	if err := deps.WorkoutStore.Save(ctx, set); err != nil {
		return "", err
	}

	slog.Info("workout_event", "event", "set_logged", "set_id", set.ID, "client_id", input.ClientID, "exercise", input.Exercise)

	return set.ID, nil
}
