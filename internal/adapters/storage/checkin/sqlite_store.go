package checkin

import (
	"context"
	"time"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/checkin"
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

// Save inserts or updates a check-in.
// PRE: c is a valid CheckIn (Validate() returns nil)
// POST: check-in is persisted
func (s *SQLiteStore) Save(ctx context.Context, c domain.CheckIn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkin (id, client_id, date, weight_kg, mood, notes, photo_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date=excluded.date, weight_kg=excluded.weight_kg, mood=excluded.mood,
		   notes=excluded.notes, photo_url=excluded.photo_url`,
		c.ID, c.ClientID, c.Date.Format("2006-01-02"), c.WeightKg, c.Mood,
		c.Notes, c.PhotoURL, c.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetByID retrieves a check-in by ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.CheckIn, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client_id, date, weight_kg, mood, notes, photo_url, created_at
		 FROM checkin WHERE id = ?`, id)
	var c domain.CheckIn
	var notes, photo *string
	var dateStr, createdStr string
	err := row.Scan(&c.ID, &c.ClientID, &dateStr, &c.WeightKg, &c.Mood, &notes, &photo, &createdStr)
	if err != nil {
		return c, err
	}
	if notes != nil {
		c.Notes = *notes
	}
	if photo != nil {
		c.PhotoURL = *photo
	}
	c.Date, _ = time.Parse("2006-01-02", dateStr)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return c, nil
}

// Delete removes a check-in by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkin WHERE id = ?`, id)
	return err
}

// ListByClientID returns a client's check-ins, newest first.
func (s *SQLiteStore) ListByClientID(ctx context.Context, clientID string, limit int) ([]domain.CheckIn, error) {
	return s.list(ctx,
		`SELECT id, client_id, date, weight_kg, mood, notes, photo_url, created_at
		 FROM checkin WHERE client_id = ?
		 ORDER BY date DESC, created_at DESC LIMIT ?`, clientID, limit)
}

// ListLatestByCoachID returns the most recent check-ins across all of a
// coach's clients, newest first.
func (s *SQLiteStore) ListLatestByCoachID(ctx context.Context, coachID string, limit int) ([]domain.CheckIn, error) {
	return s.list(ctx,
		`SELECT ci.id, ci.client_id, ci.date, ci.weight_kg, ci.mood, ci.notes, ci.photo_url, ci.created_at
		 FROM checkin ci
		 JOIN client cl ON cl.id = ci.client_id
		 WHERE cl.coach_id = ?
		 ORDER BY ci.date DESC, ci.created_at DESC LIMIT ?`, coachID, limit)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkins []domain.CheckIn
	for rows.Next() {
		var c domain.CheckIn
		var notes, photo *string
		var dateStr, createdStr string
		if err := rows.Scan(&c.ID, &c.ClientID, &dateStr, &c.WeightKg, &c.Mood, &notes, &photo, &createdStr); err != nil {
			return nil, err
		}
		if notes != nil {
			c.Notes = *notes
		}
		if photo != nil {
			c.PhotoURL = *photo
		}
		c.Date, _ = time.Parse("2006-01-02", dateStr)
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}
