package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader carries the CSRF token, in both directions: every
// response echoes the current token here, and unsafe requests present
// it back in the same header.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware creates a Gin middleware for CSRF protection over the
// session-cookie surface. Safe methods (GET, HEAD, OPTIONS, TRACE) are
// exempt by gorilla/csrf itself.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			token := csrf.Token(r)
			c.Set("csrf_token", token)
			// Echo the token so clients can read it from any safe response
			c.Header(CSRFTokenHeader, token)
			// Session middleware runs after this, so session context is
			// added on top of CSRF context
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		// gorilla/csrf answered the request itself; stop the chain so the
		// rejected request never reaches session or controller code
		if !passed {
			c.Abort()
		}
	}
}

// csrfErrorHandler handles CSRF validation failures.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}
