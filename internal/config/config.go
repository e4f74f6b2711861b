package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Catalog struct {
		BaseURL string
		Timeout time.Duration
	}

	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog lookup defaults
	v.SetDefault("catalog_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("catalog_timeout", "10s")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			BaseURL: v.GetString("CATALOG_BASE_URL"),
			Timeout: v.GetDuration("CATALOG_TIMEOUT"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
	}
}
