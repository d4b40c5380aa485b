package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/tasks"
)

// TaskQueue enqueues background work and reports its progress.
type TaskQueue interface {
	EnqueueAuditRetention(ctx context.Context, retentionDays int) (string, error)
	State(ctx context.Context, taskID string) (tasks.TaskState, error)
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client        TaskQueue
	retentionDays int
}

// NewTasksController creates a new TasksController. retentionDays is the
// default for cleanup runs that do not name their own.
func NewTasksController(client TaskQueue, retentionDays int) *TasksController {
	return &TasksController{client: client, retentionDays: retentionDays}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        tasks.AuditRetentionQueue,
			Description: "Delete audit events older than the retention period",
			Queue:       tasks.AuditRetentionQueue,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	state, err := tc.client.State(ctx, taskID)
	if err != nil {
		respondServiceError(c, err, "task status")
		return
	}

	code := http.StatusOK
	if state == tasks.TaskNotFound {
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{
		"id":     taskID,
		"status": state,
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// RetentionDays overrides the configured retention for cleanup_audit_events
	RetentionDays int `json:"retention_days,omitempty"`
}

// RunTask handles POST /tasks/:type/run
// Manually triggers a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req) {
			return
		}
	}

	if taskType != tasks.AuditRetentionQueue {
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}
	if req.RetentionDays < 0 {
		respondBadRequest(c, "retention_days must not be negative")
		return
	}
	retention := req.RetentionDays
	if retention == 0 {
		retention = tc.retentionDays
	}

	id, err := tc.client.EnqueueAuditRetention(c.Request.Context(), retention)
	if err != nil {
		respondServiceError(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task_id": id,
		"type":    taskType,
		"message": "task enqueued",
	})
}
