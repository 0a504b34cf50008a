package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theophile-senechal/unlock-app/pkg/response"
)

// CookieName is the session cookie set at login and cleared at logout
const CookieName = "session"

const contextKey = "auth.session"

// Middleware rejects requests without a valid session cookie and exposes the
// verified session to handlers.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Login required")
			c.Abort()
			return
		}

		session, err := m.Verify(raw)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Login required")
			c.Abort()
			return
		}

		c.Set(contextKey, session)
		c.Next()
	}
}

// SessionFrom returns the verified session stored by the middleware
func SessionFrom(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*Session)
	return session, ok
}
