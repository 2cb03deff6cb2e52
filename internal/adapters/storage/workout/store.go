package workout

import (
	"context"

	domain "coachdesk/internal/domain/workout"
)

// Store persists logged workout sets.
type Store interface {
	Save(ctx context.Context, value domain.Set) error
	Delete(ctx context.Context, id string) error
	// ListByClientIDAndDateRange returns sets with date in [from, to)
	// (YYYY-MM-DD strings), ordered by date then creation time.
	ListByClientIDAndDateRange(ctx context.Context, clientID, from, to string) ([]domain.Set, error)
}
