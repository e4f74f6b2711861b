package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/auth"
	"github.com/booktrail/booktrail/internal/catalog"
	"github.com/booktrail/booktrail/internal/config"
	"github.com/booktrail/booktrail/internal/database"
	"github.com/booktrail/booktrail/internal/database/accounts"
	"github.com/booktrail/booktrail/internal/database/favorites"
	http_controllers "github.com/booktrail/booktrail/internal/http"
)

func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Booktrail v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	accountStore := accounts.NewRepository(db.DB, cfg.Auth.BcryptCost)
	favoritesStore := favorites.NewRepository(db.DB)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	// Get underlying SQL DB for the session store
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(sessionManager)

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		AccountStore:   accountStore,
		FavoritesStore: favoritesStore,
		CatalogClient:  catalogClient,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
		Now:            time.Now,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg)
}
