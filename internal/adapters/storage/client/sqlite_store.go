package client

import (
	"context"
	"time"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/client"
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

// Save inserts or updates a client.
// PRE: c is a valid Client (Validate() returns nil)
// POST: client is persisted
func (s *SQLiteStore) Save(ctx context.Context, c domain.Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client (id, coach_id, account_id, name, email, phone, goal, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   coach_id=excluded.coach_id, account_id=excluded.account_id, name=excluded.name,
		   email=excluded.email, phone=excluded.phone, goal=excluded.goal, status=excluded.status`,
		c.ID, c.CoachID, c.AccountID, c.Name, c.Email, c.Phone, c.Goal, c.Status,
		c.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetByID retrieves a client by ID.
// PRE: id is non-empty
// POST: returns the client or error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Client, error) {
	return s.getWhere(ctx, "id = ?", id)
}

// GetByAccountID retrieves the client linked to an athlete login account.
// PRE: accountID is non-empty
// POST: returns the client or error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Client, error) {
	return s.getWhere(ctx, "account_id = ?", accountID)
}

// Delete removes a client by ID.
// PRE: id is non-empty
// POST: client is removed from storage
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM client WHERE id = ?`, id)
	return err
}

// List returns clients matching the filter, sorted by name.
// PRE: filter.Limit >= 0 (0 means no limit)
// POST: returns matching clients
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Client, error) {
	query := `SELECT id, coach_id, account_id, name, email, phone, goal, status, created_at
		 FROM client` + filterClause(filter) + ` ORDER BY name ASC`
	args := filterArgs(filter)
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		var accountID, phone, goal *string
		var createdStr string
		if err := rows.Scan(&c.ID, &c.CoachID, &accountID, &c.Name, &c.Email,
			&phone, &goal, &c.Status, &createdStr); err != nil {
			return nil, err
		}
		if accountID != nil {
			c.AccountID = *accountID
		}
		if phone != nil {
			c.Phone = *phone
		}
		if goal != nil {
			c.Goal = *goal
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Count returns the number of clients matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM client`+filterClause(filter), filterArgs(filter)...).Scan(&n)
	return n, err
}

func filterClause(f ListFilter) string {
	clause := ` WHERE 1=1`
	if f.CoachID != "" {
		clause += ` AND coach_id = ?`
	}
	if f.Status != "" {
		clause += ` AND status = ?`
	}
	if f.Search != "" {
		clause += ` AND (name LIKE ? OR email LIKE ?)`
	}
	return clause
}

func filterArgs(f ListFilter) []any {
	var args []any
	if f.CoachID != "" {
		args = append(args, f.CoachID)
	}
	if f.Status != "" {
		args = append(args, f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	return args
}

func (s *SQLiteStore) getWhere(ctx context.Context, where string, arg any) (domain.Client, error) {
	var c domain.Client
	var accountID, phone, goal *string
	var createdStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, coach_id, account_id, name, email, phone, goal, status, created_at
		 FROM client WHERE `+where, arg,
	).Scan(&c.ID, &c.CoachID, &accountID, &c.Name, &c.Email, &phone, &goal, &c.Status, &createdStr)
	if err != nil {
		return c, err
	}
	if accountID != nil {
		c.AccountID = *accountID
	}
	if phone != nil {
		c.Phone = *phone
	}
	if goal != nil {
		c.Goal = *goal
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return c, nil
}
