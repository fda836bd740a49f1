package service

import (
	"context"
	"time"

	"bookworm/internal/logger"
	"bookworm/internal/models"
	"bookworm/internal/repository"
)

// RegisterInput carries the registration form fields that persist.
// confirmPassword is a form-level concern and never reaches this layer.
type RegisterInput struct {
	Email        string
	Name         string
	FavoriteBook string
	Password     string
}

// Authorization handles registration and credential checks.
type Authorization interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Sessions manages server-side session rows and their signed cookie values.
type Sessions interface {
	Begin(ctx context.Context) (*models.Session, string, error)
	Resume(ctx context.Context, cookieValue string) (*models.Session, error)
	Bind(ctx context.Context, token string, userID int) error
	Destroy(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// Sweeper runs the background loop that purges expired sessions.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// Config holds the knobs the session layer reads from configuration.
type Config struct {
	SessionSecret string
	SessionTTL    time.Duration
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Sessions
	Sweeper
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	sessions := NewSessionService(repos.Sessions, cfg)
	return &Service{
		Authorization: NewAuthService(repos.Users),
		Sessions:      sessions,
		Sweeper:       NewSweeperService(sessions, log),
	}
}
