package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"bookworm/internal/models"
)

func newMockSessionRepo(t *testing.T) (*SessionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewSessionRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestSessionRepository_Create(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(24 * time.Hour)

	tests := []struct {
		name       string
		session    models.Session
		mockExpect func(sqlmock.Sqlmock)
		wantErr    bool
	}{
		{
			name:    "anonymous session stores NULL user_id",
			session: models.Session{Token: "tok-1", CreatedAt: now, ExpiresAt: exp},
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
					WithArgs("tok-1", sql.NullInt64{}, now, exp).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:    "authenticated session stores user id",
			session: models.Session{Token: "tok-2", UserID: 9, CreatedAt: now, ExpiresAt: exp},
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
					WithArgs("tok-2", sql.NullInt64{Int64: 9, Valid: true}, now, exp).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:    "exec error",
			session: models.Session{Token: "tok-3", CreatedAt: now, ExpiresAt: exp},
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
					WithArgs("tok-3", sql.NullInt64{}, now, exp).
					WillReturnError(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockSessionRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			err := repo.Create(context.Background(), tt.session)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSessionRepository_Get(t *testing.T) {
	cols := []string{"token", "user_id", "created_at", "expires_at"}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(24 * time.Hour)

	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	// authenticated row
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("tok-1", 9, now, exp))

	s, err := repo.Get(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.UserID != 9 || !s.Authenticated() {
		t.Fatalf("unexpected session: %+v", s)
	}

	// anonymous row (NULL user_id)
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("tok-2").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("tok-2", nil, now, exp))

	s, err = repo.Get(context.Background(), "tok-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.UserID != 0 || s.Authenticated() {
		t.Fatalf("expected anonymous session, got %+v", s)
	}

	// missing row
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("tok-3").
		WillReturnError(sql.ErrNoRows)

	s, err = repo.Get(context.Background(), "tok-3")
	if err != nil {
		t.Fatalf("unexpected error for missing session: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil for missing session, got %+v", s)
	}
}

func TestSessionRepository_BindUser(t *testing.T) {
	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(bindUserSQL)).
		WithArgs(9, "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.BindUser(context.Background(), "tok-1", 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// binding to a vanished session is an error
	mock.ExpectExec(regexp.QuoteMeta(bindUserSQL)).
		WithArgs(9, "tok-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.BindUser(context.Background(), "tok-gone", 9); err == nil {
		t.Fatal("expected error for missing session, got nil")
	}
}

func TestSessionRepository_DeleteAndDeleteExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	repo, mock, cleanup := newMockSessionRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// deleting a missing row is fine
	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).
		WithArgs("tok-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "tok-gone"); err != nil {
		t.Fatalf("unexpected error deleting missing session: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredSQL)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 purged sessions, got %d", n)
	}
}
