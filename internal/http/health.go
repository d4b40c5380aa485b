package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping() error
}

// TaskQueueStatus reports whether background workers are running.
type TaskQueueStatus interface {
	Started() bool
}

type HealthController struct {
	db      Pinger
	tasks   TaskQueueStatus
	version string
}

func NewHealthController(db Pinger, tasks TaskQueueStatus, version string) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   tasks,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
		status = "unhealthy"
	}

	// The task queue is optional, so it never makes the service unhealthy
	switch {
	case h.tasks == nil:
		checks["tasks"] = "disabled"
	case h.tasks.Started():
		checks["tasks"] = "ok"
	default:
		checks["tasks"] = "not started"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
