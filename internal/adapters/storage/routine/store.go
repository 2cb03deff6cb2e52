package routine

import (
	"context"

	domain "coachdesk/internal/domain/routine"
)

// Store persists Routine and Item state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Routine, error)
	Save(ctx context.Context, value domain.Routine) error
	Delete(ctx context.Context, id string) error
	ListByCoachID(ctx context.Context, coachID string) ([]domain.Routine, error)
	ListByClientID(ctx context.Context, clientID string) ([]domain.Routine, error)

	// ListItems returns a routine's items ordered by (day_index, position).
	ListItems(ctx context.Context, routineID string) ([]domain.Item, error)
	SaveItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	// ReplaceItems atomically rewrites a routine's item ordering; used after
	// a drag-reorder renumbers positions.
	ReplaceItems(ctx context.Context, routineID string, items []domain.Item) error
}
