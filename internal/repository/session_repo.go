package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookworm/internal/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Ensure implementation of Sessions interface at compile time.
var _ Sessions = (*SessionRepository)(nil)

const (
	insertSessionSQL = `INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	selectSessionSQL = `SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`
	bindUserSQL      = `UPDATE sessions SET user_id = ? WHERE token = ?`
	deleteSessionSQL = `DELETE FROM sessions WHERE token = ?`
	deleteExpiredSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

// nullableUserID maps UserID==0 (anonymous) to SQL NULL.
func nullableUserID(id int) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}
}

// Create inserts a new session row. Timestamps are persisted as UTC.
func (r *SessionRepository) Create(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.Token,
		nullableUserID(s.UserID),
		s.CreatedAt.UTC(),
		s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session %q: %w", s.Token, err)
	}
	return nil
}

// Get fetches a session by token. Returns (nil, nil) if not found.
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	var userID sql.NullInt64
	err := r.db.QueryRowContext(ctx, selectSessionSQL, token).
		Scan(&s.Token, &userID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session %q: %w", token, err)
	}
	if userID.Valid {
		s.UserID = int(userID.Int64)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return &s, nil
}

// BindUser marks the session authenticated as userID.
func (r *SessionRepository) BindUser(ctx context.Context, token string, userID int) error {
	res, err := r.db.ExecContext(ctx, bindUserSQL, userID, token)
	if err != nil {
		return fmt.Errorf("bind user %d to session %q: %w", userID, token, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for session %q: %w", token, err)
	}
	if n == 0 {
		return fmt.Errorf("bind user to session %q: no such session", token)
	}
	return nil
}

// Delete removes the session row. Deleting a missing row is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, token); err != nil {
		return fmt.Errorf("delete session %q: %w", token, err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now and
// reports how many rows went away.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSQL, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for expired sessions: %w", err)
	}
	return n, nil
}
