package http

import (
	"context"
	"time"

	"github.com/booktrail/booktrail/internal/auth"
	"github.com/booktrail/booktrail/internal/catalog"
	"github.com/booktrail/booktrail/internal/database"
	"github.com/booktrail/booktrail/internal/database/accounts"
	"github.com/booktrail/booktrail/internal/entities"
)

// AccountStore defines account operations needed by the HTTP layer.
type AccountStore interface {
	Register(username, password string) (*entities.User, error)
	Authenticate(username, password string) (*entities.User, error)
	GetStreak(userID uint) accounts.StreakData
	UpdateStreak(userID uint, today time.Time) (accounts.StreakData, error)
}

// FavoritesStore defines ledger operations needed by the HTTP layer.
type FavoritesStore interface {
	Add(userID uint, book entities.FavoriteBook) error
	Remove(userID uint, isbns []string) error
	SetNote(userID uint, isbn, text string) error
	SetPage(userID uint, isbn string, page int) error
	List(userID uint, categoryFilter string) ([]entities.FavoriteBook, error)
}

// CatalogClient defines the external book-search contract.
type CatalogClient interface {
	Search(ctx context.Context, field, topic string) ([]catalog.BookSummary, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Database       *database.Database
	AccountStore   AccountStore
	FavoritesStore FavoritesStore
	CatalogClient  CatalogClient

	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string

	// Now supplies the wall clock for streak updates; defaults to time.Now.
	Now func() time.Time
}
