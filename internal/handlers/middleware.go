package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookworm/internal/httperr"
	"bookworm/internal/models"
)

// gin context key the session middleware stores the session under.
const sessionKey = "session"

// requestLogger logs one line per request with keyed fields.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

// renderErrors is the centralized error-rendering stage: every handler
// either completes or attaches an httperr to the context, and this
// middleware turns the last attached error into the generic error page.
func (h *Handler) renderErrors(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	he := httperr.From(c.Errors.Last().Err)
	if h.log != nil && he.Status >= http.StatusInternalServerError {
		h.log.Errorw("request_failed", "path", c.Request.URL.Path, "err", he.Err)
	}
	c.HTML(he.Status, "error.html", h.viewData(c, gin.H{
		"Title":   "Error",
		"Message": he.Message,
	}))
}

// sessionMiddleware resumes the session referenced by the signed
// cookie, or begins a fresh anonymous one when the cookie is absent,
// forged, or stale. Every request downstream of this middleware
// carries a session.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	var sess *models.Session
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		sess, err = h.services.Sessions.Resume(ctx, cookie)
		if err != nil {
			h.fail(c, httperr.Internal(err))
			return
		}
	}

	if sess == nil {
		fresh, value, err := h.services.Sessions.Begin(ctx)
		if err != nil {
			h.fail(c, httperr.Internal(err))
			return
		}
		sess = fresh
		h.setSessionCookie(c, value)
	}

	c.Set(sessionKey, sess)
	c.Next()
}

// loggedOut prevents already-authenticated users from reaching a route.
func (h *Handler) loggedOut(c *gin.Context) {
	if s := h.session(c); s != nil && s.Authenticated() {
		c.Redirect(http.StatusFound, "/profile")
		c.Abort()
		return
	}
	c.Next()
}

// requireLogin lets authenticated users through and rejects the rest.
func (h *Handler) requireLogin(c *gin.Context) {
	if s := h.session(c); s == nil || !s.Authenticated() {
		h.fail(c, httperr.Forbidden("Must be logged in to view this page."))
		return
	}
	c.Next()
}

// session returns the request's session, nil if the middleware never ran.
func (h *Handler) session(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

// fail records the error for the renderer and stops the chain.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// viewData merges per-view fields with the locals every template sees.
// CurrentUser is the authenticated user id, zero when anonymous.
func (h *Handler) viewData(c *gin.Context, data gin.H) gin.H {
	out := gin.H{"CurrentUser": 0}
	if s := h.session(c); s != nil {
		out["CurrentUser"] = s.UserID
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

// setSessionCookie issues the signed session cookie for the browser
// session; no Max-Age, so it lives until the browser closes or the
// server-side row expires.
func (h *Handler) setSessionCookie(c *gin.Context, value string) {
	c.SetCookie(h.cookieName, value, 0, "/", "", false, true)
}

// clearSessionCookie tells the browser to drop the cookie immediately.
func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
}
