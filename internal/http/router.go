package http

import (
	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/auth"
)

// NewRouter builds the gin engine with the full middleware chain and all
// application routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	accountsController := NewAccountsController(cfg.AccountStore, cfg.SessionManager)
	favoritesController := NewFavoritesController(cfg.FavoritesStore, cfg.AccountStore, cfg.Now)
	searchController := NewSearchController(cfg.CatalogClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Account endpoints
	router.POST("/register", accountsController.Register)
	router.POST("/login", accountsController.Login)
	router.POST("/logout", accountsController.Logout)
	router.GET("/logout", accountsController.Logout) // Support GET for simple logout links
	router.GET("/", accountsController.Home)

	// Catalog search
	router.POST("/api/search", searchController.Search)

	// Favorites ledger
	router.GET("/api/favorites", favoritesController.List)
	router.POST("/api/favorites", favoritesController.Add)
	router.POST("/api/favorites/remove", favoritesController.Remove)
	router.POST("/api/favorites/page", favoritesController.UpdatePage)
	router.POST("/api/favorites/learning", favoritesController.SaveLearning)
	router.GET("/api/bookmarks", favoritesController.Bookmarks)

	return router
}
