package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookworm/internal/httperr"
)

func (h *Handler) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.viewData(c, gin.H{"Title": "Home"}))
}

func (h *Handler) about(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", h.viewData(c, gin.H{"Title": "About"}))
}

func (h *Handler) contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", h.viewData(c, gin.H{"Title": "Contact"}))
}

// notFound renders the error page for any unmatched route.
func (h *Handler) notFound(c *gin.Context) {
	h.fail(c, httperr.NotFound("File Not Found."))
}
