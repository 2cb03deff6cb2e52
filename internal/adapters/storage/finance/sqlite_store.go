package finance

import (
	"context"
	"time"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/finance"
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

// Save inserts or updates a transaction.
// PRE: t is a valid Transaction (Validate() returns nil)
// POST: transaction is persisted
func (s *SQLiteStore) Save(ctx context.Context, t domain.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO finance_transaction (id, coach_id, client_id, kind, amount_cents, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   client_id=excluded.client_id, kind=excluded.kind, amount_cents=excluded.amount_cents,
		   description=excluded.description, date=excluded.date`,
		t.ID, t.CoachID, t.ClientID, t.Kind, t.AmountCents, t.Description,
		t.Date.Format("2006-01-02"), t.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a transaction by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM finance_transaction WHERE id = ?`, id)
	return err
}

// ListByCoachIDAndDateRange returns transactions with date in [from, to).
// PRE: from and to are YYYY-MM-DD strings
// POST: returns transactions ordered by date ascending
func (s *SQLiteStore) ListByCoachIDAndDateRange(ctx context.Context, coachID, from, to string) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, coach_id, client_id, kind, amount_cents, description, date, created_at
		 FROM finance_transaction
		 WHERE coach_id = ? AND date >= ? AND date < ?
		 ORDER BY date ASC, created_at ASC`, coachID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var clientID, desc *string
		var dateStr, createdStr string
		if err := rows.Scan(&t.ID, &t.CoachID, &clientID, &t.Kind, &t.AmountCents,
			&desc, &dateStr, &createdStr); err != nil {
			return nil, err
		}
		if clientID != nil {
			t.ClientID = *clientID
		}
		if desc != nil {
			t.Description = *desc
		}
		t.Date, _ = time.Parse("2006-01-02", dateStr)
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
