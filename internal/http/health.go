package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/database"
)

// HealthController reports service liveness and database reachability.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

func (h *HealthController) databaseCheck() (string, bool) {
	if h.db == nil {
		return "not configured", true
	}
	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

// Status answers GET /health with a database connectivity check.
func (h *HealthController) Status(c *gin.Context) {
	dbState, healthy := h.databaseCheck()

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"version": h.version,
		"time":    time.Now().Format(time.RFC3339),
		"checks":  gin.H{"database": dbState},
	})
}
