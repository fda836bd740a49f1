package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bookworm/internal/models"
	"bookworm/internal/repository"
)

// Domain errors for auth flows. Handlers collapse ErrUserNotFound and
// ErrInvalidPassword into one user-facing message so login failures do
// not reveal which emails are registered.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
)

// AuthService handles user registration and credential checks.
type AuthService struct {
	users repository.Users
}

func NewAuthService(users repository.Users) *AuthService {
	return &AuthService{users: users}
}

var _ Authorization = (*AuthService)(nil)

// Register hashes the password and creates a new user. Text fields are
// trimmed before persisting. A duplicate email surfaces as
// repository.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	u := models.User{
		Email:        strings.TrimSpace(input.Email),
		Name:         strings.TrimSpace(input.Name),
		FavoriteBook: strings.TrimSpace(input.FavoriteBook),
		PasswordHash: hash,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// Authenticate looks up the user by exact email and verifies the
// password against the stored bcrypt hash. Read-only.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidPassword
	}
	return u, nil
}

// GetByID fetches a user by id, mapping a miss to ErrUserNotFound.
func (s *AuthService) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
