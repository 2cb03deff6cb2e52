package finance

import (
	"context"

	domain "coachdesk/internal/domain/finance"
)

// Store persists Transaction state.
type Store interface {
	Save(ctx context.Context, value domain.Transaction) error
	Delete(ctx context.Context, id string) error
	// ListByCoachIDAndDateRange returns transactions with date in [from, to)
	// (YYYY-MM-DD strings), oldest first, for month bucketing.
	ListByCoachIDAndDateRange(ctx context.Context, coachID, from, to string) ([]domain.Transaction, error)
}
