package agenda

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/agenda"
)

// Timestamps are stored as RFC3339 in UTC so lexicographic range queries
// match chronological order.
const tsFormat = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with the schema applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByOwnerAndRange returns events with timestamp in [from, to).
// A row whose stored timestamp no longer parses is logged and skipped rather
// than failing the whole window.
// PRE: ownerID is non-empty, from is before to
// POST: returns events sorted by timestamp ascending
func (s *SQLiteStore) ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, kind, timestamp, duration_hours, location, notes, created_at
		 FROM calendar_event
		 WHERE owner_id = ? AND timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp ASC`,
		ownerID, from.UTC().Format(tsFormat), to.UTC().Format(tsFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			var perr *time.ParseError
			if errors.As(err, &perr) {
				slog.Error("agenda_event", "event", "malformed_event_row",
					"event_id", e.ID, "error", err)
				continue
			}
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: returns the event or sql.ErrNoRows wrapped error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, kind, timestamp, duration_hours, location, notes, created_at
		 FROM calendar_event WHERE id = ?`, id)
	return scanEvent(row.Scan)
}

// Insert persists a draft event and returns the store-assigned UUID.
// PRE: e is a valid Event with the draft sentinel ID
// POST: event row exists with a fresh non-sentinel ID
func (s *SQLiteStore) Insert(ctx context.Context, e domain.Event) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_event (id, owner_id, title, kind, timestamp, duration_hours, location, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.OwnerID, e.Title, e.Kind,
		e.Timestamp.UTC().Format(tsFormat), e.DurationHours,
		e.Location, e.Notes, e.CreatedAt.UTC().Format(tsFormat),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update applies a partial patch to an event row.
// PRE: id is non-empty
// POST: only the patch's non-nil fields are changed; applying the same
// patch twice leaves the row identical
func (s *SQLiteStore) Update(ctx context.Context, id string, p Patch) error {
	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Kind != nil {
		sets = append(sets, "kind = ?")
		args = append(args, *p.Kind)
	}
	if p.Timestamp != nil {
		sets = append(sets, "timestamp = ?")
		args = append(args, p.Timestamp.UTC().Format(tsFormat))
	}
	if p.DurationHours != nil {
		sets = append(sets, "duration_hours = ?")
		args = append(args, *p.DurationHours)
	}
	if p.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *p.Location)
	}
	if p.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *p.Notes)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE calendar_event SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update event %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Delete removes an event by ID. Deleting twice is not an error.
// PRE: id is non-empty
// POST: no row with the given ID remains
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM calendar_event WHERE id = ?`, id)
	return err
}

func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var tsStr, createdStr string
	var location, notes *string
	if err := scan(&e.ID, &e.OwnerID, &e.Title, &e.Kind, &tsStr, &e.DurationHours,
		&location, &notes, &createdStr); err != nil {
		return e, err
	}
	if location != nil {
		e.Location = *location
	}
	if notes != nil {
		e.Notes = *notes
	}
	var err error
	if e.Timestamp, err = parseTimestamp(tsStr); err != nil {
		return e, fmt.Errorf("event %s timestamp: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return e, fmt.Errorf("event %s created_at: %w", e.ID, err)
	}
	return e, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(tsFormat, s)
}
