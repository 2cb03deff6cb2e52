package finance

import (
	"errors"
	"strings"
	"time"
)

// Transaction kind constants.
const (
	KindIncome  = "income"  // client payments
	KindExpense = "expense" // equipment, rent, software
)

// Max length constants for user-editable fields.
const (
	MaxDescriptionLength = 200
)

// Domain errors
var (
	ErrEmptyCoachID  = errors.New("transaction coach ID cannot be empty")
	ErrInvalidKind   = errors.New("transaction kind must be 'income' or 'expense'")
	ErrInvalidAmount = errors.New("transaction amount must be greater than zero")
	ErrZeroDate      = errors.New("transaction date is required")
	ErrEmptyDesc     = errors.New("transaction description cannot be empty")
)

// Transaction is one money movement in a coach's books. Amounts are stored
// in cents to avoid float drift; Kind determines the sign at aggregation
// time, so AmountCents is always positive.
type Transaction struct {
	ID          string
	CoachID     string
	ClientID    string // empty for transactions not tied to a client
	Kind        string
	AmountCents int
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// Validate checks if the Transaction has valid data.
// PRE: Transaction struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: AmountCents > 0, Kind is income or expense
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.CoachID) == "" {
		return ErrEmptyCoachID
	}
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return ErrInvalidKind
	}
	if t.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDesc
	}
	if len(t.Description) > MaxDescriptionLength {
		return errors.New("transaction description cannot exceed 200 characters")
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// SignedCents returns the amount with expense transactions negated.
// INVARIANT: Transaction fields are not mutated
func (t *Transaction) SignedCents() int {
	if t.Kind == KindExpense {
		return -t.AmountCents
	}
	return t.AmountCents
}
