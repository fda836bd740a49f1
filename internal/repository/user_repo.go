package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookworm/internal/models"
)

// ErrEmailTaken signals a violation of the unique email constraint.
var ErrEmailTaken = errors.New("email already registered")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (email, name, favorite_book, password_hash) VALUES (?, ?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, email, name, favorite_book, password_hash FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, email, name, favorite_book, password_hash FROM users WHERE id = ?`
)

// isUniqueViolation detects the sqlite unique-constraint failure on users.email.
// modernc.org/sqlite exposes no sentinel for this, so the error text is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

// Create inserts a new user and returns its ID. A duplicate email
// returns ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u models.User) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Email, u.Name, u.FavoriteBook, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by exact email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.FavoriteBook, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return &u, nil
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.FavoriteBook, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user by id %d: %w", id, err)
	}
	return &u, nil
}
