package handlers

import (
	"bookworm/internal/logger"
	"bookworm/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services   *service.Service
	log        *logger.Logger
	cookieName string
	templates  string
	staticDir  string
}

// Config holds the HTTP-layer knobs read from configuration.
type Config struct {
	CookieName    string
	TemplatesGlob string
	StaticDir     string
}

const (
	defaultCookieName    = "bookworm_session"
	defaultTemplatesGlob = "web/templates/*.html"
	defaultStaticDir     = "web/static"
)

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	h := &Handler{
		services:   services,
		log:        log,
		cookieName: cfg.CookieName,
		templates:  cfg.TemplatesGlob,
		staticDir:  cfg.StaticDir,
	}
	if h.cookieName == "" {
		h.cookieName = defaultCookieName
	}
	if h.templates == "" {
		h.templates = defaultTemplatesGlob
	}
	if h.staticDir == "" {
		h.staticDir = defaultStaticDir
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
// Middleware order matters: the error renderer has to wrap the session
// middleware so session store failures still get an error page.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(h.requestLogger)
	router.Use(h.renderErrors)
	router.Use(h.sessionMiddleware)

	router.LoadHTMLGlob(h.templates)
	router.Static("/static", h.staticDir)

	h.registerPageRoutes(router)
	h.registerAuthRoutes(router)

	router.NoRoute(h.notFound)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/about", h.about)
	r.GET("/contact", h.contact)
	r.GET("/profile", h.requireLogin, h.profile)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/register", h.loggedOut, h.registerForm)
	r.POST("/register", h.register)
	r.GET("/login", h.loggedOut, h.loginForm)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
}
