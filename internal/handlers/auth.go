package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookworm/internal/httperr"
	"bookworm/internal/repository"
	"bookworm/internal/service"
)

// User-facing messages for the auth flows. Login failures share one
// message regardless of cause so the form never reveals which emails
// are registered.
const (
	msgAllFieldsRequired  = "All fields required."
	msgPasswordMismatch   = "Passwords do not match."
	msgEmailTaken         = "Email already registered."
	msgCredentialsMissing = "Email and password are required"
	msgWrongCredentials   = "Wrong email or password."
)

func (h *Handler) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.viewData(c, gin.H{"Title": "Sign Up"}))
}

func (h *Handler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.viewData(c, gin.H{"Title": "Log In"}))
}

// register creates the user, logs the new account in on its current
// session and sends it to the profile page.
func (h *Handler) register(c *gin.Context) {
	email := c.PostForm("email")
	name := c.PostForm("name")
	favoriteBook := c.PostForm("favoriteBook")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")

	if email == "" || name == "" || favoriteBook == "" || password == "" || confirmPassword == "" {
		h.fail(c, httperr.BadRequest(msgAllFieldsRequired))
		return
	}
	if password != confirmPassword {
		h.fail(c, httperr.BadRequest(msgPasswordMismatch))
		return
	}

	ctx := c.Request.Context()
	user, err := h.services.Register(ctx, service.RegisterInput{
		Email:        email,
		Name:         name,
		FavoriteBook: favoriteBook,
		Password:     password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			h.fail(c, httperr.BadRequest(msgEmailTaken))
			return
		}
		h.fail(c, httperr.Internal(err))
		return
	}

	if err := h.bindSession(c, user.ID); err != nil {
		h.fail(c, httperr.Internal(err))
		return
	}
	c.Redirect(http.StatusFound, "/profile")
}

// login checks credentials and authenticates the current session.
func (h *Handler) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		h.fail(c, httperr.Unauthorized(msgCredentialsMissing))
		return
	}

	ctx := c.Request.Context()
	user, err := h.services.Authenticate(ctx, email, password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("login_failed", "email", email, "err", err)
		}
		h.fail(c, httperr.Unauthorized(msgWrongCredentials))
		return
	}

	if err := h.bindSession(c, user.ID); err != nil {
		h.fail(c, httperr.Internal(err))
		return
	}
	c.Redirect(http.StatusFound, "/profile")
}

// profile renders the logged-in user's name and favorite book.
func (h *Handler) profile(c *gin.Context) {
	sess := h.session(c)

	user, err := h.services.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		h.fail(c, httperr.Internal(err))
		return
	}

	c.HTML(http.StatusOK, "profile.html", h.viewData(c, gin.H{
		"Title":    "Profile",
		"Name":     user.Name,
		"Favorite": user.FavoriteBook,
	}))
}

// logout destroys the session and always responds with a redirect home.
func (h *Handler) logout(c *gin.Context) {
	if sess := h.session(c); sess != nil {
		if err := h.services.Destroy(c.Request.Context(), sess.Token); err != nil {
			h.fail(c, httperr.Internal(err))
			return
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// bindSession marks the current session authenticated as userID.
func (h *Handler) bindSession(c *gin.Context, userID int) error {
	sess := h.session(c)
	if sess == nil {
		return errors.New("no session on request")
	}
	if err := h.services.Bind(c.Request.Context(), sess.Token, userID); err != nil {
		return err
	}
	sess.UserID = userID
	return nil
}
