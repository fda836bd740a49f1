package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"bookworm/internal/service"
)

func TestSessionMiddleware_BeginsSessionForNewVisitor(t *testing.T) {
	sessions := newMockSessions()
	r := newTestRouter(&service.Service{Authorization: &mockAuthz{}, Sessions: sessions})

	w := doGet(r, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	if sessionCookieValue(w) == "" {
		t.Fatal("expected a fresh session cookie for a cookie-less request")
	}
}

func TestSessionMiddleware_UnknownCookieGetsFreshSession(t *testing.T) {
	sessions := newMockSessions()
	r := newTestRouter(&service.Service{Authorization: &mockAuthz{}, Sessions: sessions})

	w := doGet(r, "/", "sess-forged")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	fresh := sessionCookieValue(w)
	if fresh == "" || fresh == "sess-forged" {
		t.Fatalf("expected a replacement cookie, got %q", fresh)
	}
}

func TestSessionMiddleware_KeepsExistingSession(t *testing.T) {
	sessions := newMockSessions()
	cookie := sessions.authenticated(5)
	r := newTestRouter(&service.Service{Authorization: &mockAuthz{}, Sessions: sessions})

	w := doGet(r, "/", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	if got := sessionCookieValue(w); got != "" {
		t.Fatalf("expected no new cookie for a live session, got %q", got)
	}
}

func TestSessionMiddleware_StoreFailureRendersErrorPage(t *testing.T) {
	sessions := newMockSessions()
	sessions.beginErr = errors.New("db down")
	r := newTestRouter(&service.Service{Authorization: &mockAuthz{}, Sessions: sessions})

	w := doGet(r, "/", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "Something went wrong.") {
		t.Fatalf("expected generic error page, got %s", w.Body.String())
	}
}

func TestLoggedOutGate_RedirectsAuthenticatedUsers(t *testing.T) {
	for _, path := range []string{"/login", "/register"} {
		path := path
		t.Run(path, func(t *testing.T) {
			sessions := newMockSessions()
			cookie := sessions.authenticated(5)
			r := newTestRouter(&service.Service{Authorization: &mockAuthz{}, Sessions: sessions})

			w := doGet(r, path, cookie)
			if w.Code != http.StatusFound {
				t.Fatalf("status: got %d, want %d", w.Code, http.StatusFound)
			}
			if loc := w.Header().Get("Location"); loc != "/profile" {
				t.Fatalf("redirect: got %q, want /profile", loc)
			}
		})
	}
}

func TestLoggedOutGate_LetsAnonymousThrough(t *testing.T) {
	sessions := newMockSessions()
	r := newTestRouter(&service.Service{Authorization: &mockAuthz{}, Sessions: sessions})

	w := doGet(r, "/login", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Log In") {
		t.Fatalf("expected login form, got %s", w.Body.String())
	}
}
