package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// Middleware resolves the session user for HTTP requests. Every core
// entry point requires an authenticated user; absence of a session is an
// error condition answered here, never inside the stores.
type Middleware struct {
	sessionManager *SessionManager
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	publicPaths := map[string]bool{
		"/health":   true,
		"/ping":     true,
		"/register": true,
		"/login":    true,
	}

	return &Middleware{
		sessionManager: sessionManager,
		publicPaths:    publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		userID := m.sessionManager.GetUserID(c.Request)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyUsername, m.sessionManager.GetUsername(c.Request))
		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns 0 when no user is authenticated.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername extracts the authenticated username from the Gin context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}
