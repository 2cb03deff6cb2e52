package account

import (
	"context"
	"time"

	"coachdesk/internal/adapters/storage"
	domain "coachdesk/internal/domain/account"
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

// Save inserts or updates an account.
// PRE: a is a valid Account (Validate() returns nil)
// POST: account is persisted
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	lockedUntil := ""
	if !a.LockedUntil.IsZero() {
		lockedUntil = a.LockedUntil.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, email, password_hash, role, created_at, failed_logins, locked_until)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, password_hash=excluded.password_hash, role=excluded.role,
		   failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, a.Email, a.PasswordHash, a.Role,
		a.CreatedAt.UTC().Format(time.RFC3339), a.FailedLogins, lockedUntil,
	)
	return err
}

// GetByID retrieves an account by ID.
// PRE: id is non-empty
// POST: returns the account or error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getWhere(ctx, "id = ?", id)
}

// GetByEmail retrieves an account by email.
// PRE: email is non-empty
// POST: returns the account or error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getWhere(ctx, "email = ?", email)
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n)
	return n, err
}

// ListByRole returns all accounts with the given role, oldest first.
func (s *SQLiteStore) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		 FROM account WHERE role = ? ORDER BY created_at ASC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var createdStr string
		var lockedStr *string
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdStr, &a.FailedLogins, &lockedStr); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		if lockedStr != nil && *lockedStr != "" {
			a.LockedUntil, _ = time.Parse(time.RFC3339, *lockedStr)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *SQLiteStore) getWhere(ctx context.Context, where string, arg any) (domain.Account, error) {
	var a domain.Account
	var createdStr string
	var lockedStr *string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		 FROM account WHERE `+where, arg,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdStr, &a.FailedLogins, &lockedStr)
	if err != nil {
		return a, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	if lockedStr != nil && *lockedStr != "" {
		a.LockedUntil, _ = time.Parse(time.RFC3339, *lockedStr)
	}
	return a, nil
}
