package account

import (
	"context"

	domain "coachdesk/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
	// ListByRole returns all accounts with the given role, oldest first.
	ListByRole(ctx context.Context, role string) ([]domain.Account, error)
}
