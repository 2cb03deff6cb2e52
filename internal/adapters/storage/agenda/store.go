package agenda

import (
	"context"
	"time"

	domain "coachdesk/internal/domain/agenda"
)

// Patch carries a partial update for a calendar event. Nil fields are left
// untouched, so re-sending the same patch is idempotent. Drag-reschedule
// sends a timestamp-only patch; the edit form sends the full field set.
type Patch struct {
	Title         *string
	Kind          *string
	Timestamp     *time.Time
	DurationHours *float64
	Location      *string
	Notes         *string
}

// TimestampOnly builds the patch used by drag-reschedule.
func TimestampOnly(ts time.Time) Patch {
	return Patch{Timestamp: &ts}
}

// Store persists CalendarEvent state. This is the remote event store surface
// the weekly grid depends on: list by half-open time range, insert with
// store-assigned ID, partial update, idempotent delete.
type Store interface {
	// ListByOwnerAndRange returns the owner's events with timestamp in
	// [from, to), ordered by timestamp ascending.
	ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (domain.Event, error)
	// Insert persists a draft event and returns the assigned ID. IDs are
	// never generated by callers.
	Insert(ctx context.Context, e domain.Event) (string, error)
	// Update applies a partial patch. Unknown IDs are an error; re-applying
	// the same patch is not, and a patch with no fields set is a no-op.
	Update(ctx context.Context, id string, p Patch) error
	// Delete removes an event. Deleting an ID twice is not an error.
	Delete(ctx context.Context, id string) error
}
