package routine

import (
	"context"
	"time"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/routine"
)

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

// Save inserts or updates a routine.
// PRE: r is a valid Routine (Validate() returns nil)
// POST: routine is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Routine) error {
	updated := ""
	if !r.UpdatedAt.IsZero() {
		updated = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO routine (id, coach_id, client_id, name, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   client_id=excluded.client_id, name=excluded.name, notes=excluded.notes,
		   updated_at=excluded.updated_at`,
		r.ID, r.CoachID, r.ClientID, r.Name, r.Notes,
		r.CreatedAt.UTC().Format(time.RFC3339), updated,
	)
	return err
}

// GetByID retrieves a routine by ID.
// PRE: id is non-empty
// POST: returns the routine or error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Routine, error) {
	var r domain.Routine
	var clientID, notes, updatedStr *string
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, coach_id, client_id, name, notes, created_at, updated_at
		 FROM routine WHERE id = ?`, id,
	).Scan(&r.ID, &r.CoachID, &clientID, &r.Name, &notes, &createdStr, &updatedStr)
	if err != nil {
		return r, err
	}
	if clientID != nil {
		r.ClientID = *clientID
	}
	if notes != nil {
		r.Notes = *notes
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	if updatedStr != nil && *updatedStr != "" {
		r.UpdatedAt, _ = time.Parse(time.RFC3339, *updatedStr)
	}
	return r, nil
}

// Delete removes a routine and its items.
// PRE: id is non-empty
// POST: routine and all its items are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM routine_item WHERE routine_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM routine WHERE id = ?`, id)
	return err
}

// ListByCoachID returns a coach's routines, newest first.
func (s *SQLiteStore) ListByCoachID(ctx context.Context, coachID string) ([]domain.Routine, error) {
	return s.listWhere(ctx, "coach_id = ?", coachID)
}

// ListByClientID returns the routines assigned to a client.
func (s *SQLiteStore) ListByClientID(ctx context.Context, clientID string) ([]domain.Routine, error) {
	return s.listWhere(ctx, "client_id = ?", clientID)
}

func (s *SQLiteStore) listWhere(ctx context.Context, where string, arg any) ([]domain.Routine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, coach_id, client_id, name, notes, created_at, updated_at
		 FROM routine WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []domain.Routine
	for rows.Next() {
		var r domain.Routine
		var clientID, notes, updatedStr *string
		var createdStr string
		if err := rows.Scan(&r.ID, &r.CoachID, &clientID, &r.Name, &notes, &createdStr, &updatedStr); err != nil {
			return nil, err
		}
		if clientID != nil {
			r.ClientID = *clientID
		}
		if notes != nil {
			r.Notes = *notes
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		if updatedStr != nil && *updatedStr != "" {
			r.UpdatedAt, _ = time.Parse(time.RFC3339, *updatedStr)
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

// ListItems returns a routine's items ordered by (day_index, position).
// PRE: routineID is non-empty
// POST: items are dense-ordered per day as persisted
func (s *SQLiteStore) ListItems(ctx context.Context, routineID string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, routine_id, day_index, position, exercise, sets, reps, rest_seconds, notes
		 FROM routine_item WHERE routine_id = ?
		 ORDER BY day_index ASC, position ASC`, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		var reps, notes *string
		if err := rows.Scan(&it.ID, &it.RoutineID, &it.DayIndex, &it.Position,
			&it.Exercise, &it.Sets, &reps, &it.RestSeconds, &notes); err != nil {
			return nil, err
		}
		if reps != nil {
			it.Reps = *reps
		}
		if notes != nil {
			it.Notes = *notes
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SaveItem inserts or updates a single item.
// PRE: item is a valid Item (Validate() returns nil)
// POST: item is persisted
func (s *SQLiteStore) SaveItem(ctx context.Context, it domain.Item) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO routine_item (id, routine_id, day_index, position, exercise, sets, reps, rest_seconds, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   day_index=excluded.day_index, position=excluded.position, exercise=excluded.exercise,
		   sets=excluded.sets, reps=excluded.reps, rest_seconds=excluded.rest_seconds, notes=excluded.notes`,
		it.ID, it.RoutineID, it.DayIndex, it.Position, it.Exercise, it.Sets, it.Reps, it.RestSeconds, it.Notes,
	)
	return err
}

// DeleteItem removes a single item.
func (s *SQLiteStore) DeleteItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM routine_item WHERE id = ?`, itemID)
	return err
}

// ReplaceItems rewrites all of a routine's items in one pass.
// PRE: items all belong to routineID with dense positions
// POST: the stored item set equals items
func (s *SQLiteStore) ReplaceItems(ctx context.Context, routineID string, items []domain.Item) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM routine_item WHERE routine_id = ?`, routineID); err != nil {
		return err
	}
	for _, it := range items {
		if err := s.SaveItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}
