package workout

import (
	"context"
	"time"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/workout"
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

// Save inserts or updates a workout set.
// PRE: v is a valid Set (Validate() returns nil)
// POST: set is persisted
func (s *SQLiteStore) Save(ctx context.Context, v domain.Set) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workout_set (id, client_id, routine_item_id, exercise, reps, weight_kg, date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   exercise=excluded.exercise, reps=excluded.reps, weight_kg=excluded.weight_kg,
		   date=excluded.date, notes=excluded.notes`,
		v.ID, v.ClientID, v.RoutineItemID, v.Exercise, v.Reps, v.WeightKg,
		v.Date.Format("2006-01-02"), v.Notes, v.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a workout set by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workout_set WHERE id = ?`, id)
	return err
}

// ListByClientIDAndDateRange returns sets with date in [from, to).
// PRE: from and to are YYYY-MM-DD strings
// POST: returns sets ordered by date, then created_at
func (s *SQLiteStore) ListByClientIDAndDateRange(ctx context.Context, clientID, from, to string) ([]domain.Set, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_id, routine_item_id, exercise, reps, weight_kg, date, notes, created_at
		 FROM workout_set
		 WHERE client_id = ? AND date >= ? AND date < ?
		 ORDER BY date ASC, created_at ASC`, clientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []domain.Set
	for rows.Next() {
		var v domain.Set
		var itemID, notes *string
		var dateStr, createdStr string
		if err := rows.Scan(&v.ID, &v.ClientID, &itemID, &v.Exercise, &v.Reps,
			&v.WeightKg, &dateStr, &notes, &createdStr); err != nil {
			return nil, err
		}
		if itemID != nil {
			v.RoutineItemID = *itemID
		}
		if notes != nil {
			v.Notes = *notes
		}
		v.Date, _ = time.Parse("2006-01-02", dateStr)
		v.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		sets = append(sets, v)
	}
	return sets, rows.Err()
}
