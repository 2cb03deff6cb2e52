package checkin

import (
	"context"

	domain "coachdesk/internal/domain/checkin"
)

// Store persists CheckIn state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.CheckIn, error)
	Save(ctx context.Context, value domain.CheckIn) error
	Delete(ctx context.Context, id string) error
	// ListByClientID returns a client's check-ins, newest first.
	ListByClientID(ctx context.Context, clientID string, limit int) ([]domain.CheckIn, error)
	// ListLatestByCoachID returns the most recent check-ins across all of a
	// coach's clients, newest first.
	ListLatestByCoachID(ctx context.Context, coachID string, limit int) ([]domain.CheckIn, error)
}
