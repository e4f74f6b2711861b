package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/booktrail/booktrail/internal/config"
	"github.com/booktrail/booktrail/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyLoginAt  = "login_at"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register(time.Time{})
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the
// application's sqlite database.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2 // Half of lifetime for inactivity

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession creates a new session for a user after successful
// authentication. This should be called after password verification.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Store user ID as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.Username)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now())

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// GetUsername retrieves the username from the session.
func (sm *SessionManager) GetUsername(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUsername)
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}
