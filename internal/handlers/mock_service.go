package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"bookworm/internal/models"
	"bookworm/internal/service"
)

// ---- Service Mocks ----

type mockAuthz struct {
	registerUser *models.User
	registerErr  error
	authUser     *models.User
	authErr      error
	byIDUser     *models.User
	byIDErr      error

	registerCalls []service.RegisterInput
	authCalls     []string
	byIDCalls     []int
}

func (m *mockAuthz) Register(_ context.Context, input service.RegisterInput) (*models.User, error) {
	m.registerCalls = append(m.registerCalls, input)
	return m.registerUser, m.registerErr
}

func (m *mockAuthz) Authenticate(_ context.Context, email, _ string) (*models.User, error) {
	m.authCalls = append(m.authCalls, email)
	return m.authUser, m.authErr
}

func (m *mockAuthz) GetByID(_ context.Context, id int) (*models.User, error) {
	m.byIDCalls = append(m.byIDCalls, id)
	return m.byIDUser, m.byIDErr
}

// mockSessions keeps sessions in a map; the cookie value is the raw
// token, signing is the real SessionService's concern.
type mockSessions struct {
	mu   sync.Mutex
	rows map[string]*models.Session
	seq  int

	beginErr   error
	resumeErr  error
	bindErr    error
	destroyErr error
}

func newMockSessions() *mockSessions {
	return &mockSessions{rows: make(map[string]*models.Session)}
}

func (m *mockSessions) Begin(context.Context) (*models.Session, string, error) {
	if m.beginErr != nil {
		return nil, "", m.beginErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	token := fmt.Sprintf("sess-%d", m.seq)
	s := &models.Session{Token: token, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	m.rows[token] = s
	return s, token, nil
}

func (m *mockSessions) Resume(_ context.Context, cookieValue string) (*models.Session, error) {
	if m.resumeErr != nil {
		return nil, m.resumeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[cookieValue]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *mockSessions) Bind(_ context.Context, token string, userID int) error {
	if m.bindErr != nil {
		return m.bindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[token]; ok {
		s.UserID = userID
	}
	return nil
}

func (m *mockSessions) Destroy(_ context.Context, token string) error {
	if m.destroyErr != nil {
		return m.destroyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, token)
	return nil
}

func (m *mockSessions) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}

// authenticated seeds a logged-in session and returns its cookie value.
func (m *mockSessions) authenticated(userID int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	token := fmt.Sprintf("sess-%d", m.seq)
	m.rows[token] = &models.Session{Token: token, UserID: userID, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	return token
}

func (m *mockSessions) get(token string) *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[token]
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Config{
		TemplatesGlob: "../../web/templates/*.html",
		StaticDir:     "../../web/static",
	})
	return h.InitRoutes()
}

func doGet(r *gin.Engine, path, sessionCookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: sessionCookie})
	}
	r.ServeHTTP(w, req)
	return w
}

func doPostForm(r *gin.Engine, path string, form url.Values, sessionCookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: sessionCookie})
	}
	r.ServeHTTP(w, req)
	return w
}

// sessionCookieValue extracts the session cookie a response set, "" if none.
func sessionCookieValue(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == defaultCookieName {
			return c.Value
		}
	}
	return ""
}
