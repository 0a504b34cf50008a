package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theophile-senechal/unlock-app/internal/auth"
	"github.com/theophile-senechal/unlock-app/internal/service"
	"github.com/theophile-senechal/unlock-app/internal/strava"
	"github.com/theophile-senechal/unlock-app/pkg/response"
)

const sessionMaxAge = 30 * 24 * 3600

// AuthHandler handles the OAuth login flow against the activity provider
type AuthHandler struct {
	client   *strava.Client
	sessions *auth.Manager
	service  *service.TerritoryService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *strava.Client, sessions *auth.Manager, service *service.TerritoryService) *AuthHandler {
	return &AuthHandler{client: client, sessions: sessions, service: service}
}

// Login handles GET /auth
func (h *AuthHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.client.AuthorizeURL())
}

// Callback handles GET /callback
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "Missing authorization code")
		return
	}

	token, err := h.client.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		log.Printf("[AuthHandler] Code exchange failed: %v", err)
		response.Unauthorized(c, "Authorization failed")
		return
	}

	session, err := h.sessions.Issue(token)
	if err != nil {
		response.InternalError(c, "Failed to create session")
		return
	}

	c.SetCookie(auth.CookieName, session, sessionMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(auth.CookieName); err == nil {
		if session, err := h.sessions.Verify(raw); err == nil {
			if err := h.service.Logout(c.Request.Context(), session.Identity); err != nil {
				log.Printf("[AuthHandler] Cache invalidation failed for %s: %v", session.Identity, err)
			}
		}
	}

	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	response.Success(c, gin.H{"logged_out": true})
}
