package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// TaskState is the lifecycle state of an enqueued task as reported to API
// clients.
type TaskState string

const (
	TaskPending  TaskState = "pending"
	TaskRunning  TaskState = "running"
	TaskSuccess  TaskState = "success"
	TaskFailure  TaskState = "failure"
	TaskNotFound TaskState = "not_found"
	TaskUnknown  TaskState = "unknown"
)

// Client runs the library's background work on a backlite queue. The queue
// always lives in its own SQLite file next to the main database, even when
// library records are kept in PostgreSQL.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int
	audit   bool

	mu      sync.RWMutex
	started bool
}

// NewClient opens the queue database for mainDBPath and registers the
// library's queues. maintainer may be nil when the audit trail is disabled,
// in which case retention passes cannot be enqueued.
func NewClient(mainDBPath string, cfg Config, maintainer AuditMaintainer) (*Client, error) {
	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task queue: %w", err)
	}
	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install task queue schema: %w", err)
	}

	c := &Client{queue: queue, db: db, workers: cfg.Workers}
	if maintainer != nil {
		queue.Register(auditRetentionQueue(maintainer))
		c.audit = true
	}
	return c, nil
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open task queue database %s: %w", path, err)
	}
	// Every worker holds a connection while it runs; the rest serve enqueue
	// and status calls from HTTP handlers.
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// TasksDBPath derives the queue database path from the main database path:
// "data/library.db" becomes "data/library-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// HandlesAuditRetention reports whether retention passes can be enqueued.
func (c *Client) HandlesAuditRetention() bool {
	return c.audit
}

// EnqueueAuditRetention schedules a retention pass and returns its task ID.
func (c *Client) EnqueueAuditRetention(ctx context.Context, retentionDays int) (string, error) {
	if !c.audit {
		return "", ErrNoAuditMaintainer
	}
	ids, err := c.queue.Add(AuditRetentionTask{RetentionDays: retentionDays}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue audit retention: %w", err)
	}
	return ids[0], nil
}

// State looks up an enqueued task.
func (c *Client) State(ctx context.Context, taskID string) (TaskState, error) {
	status, err := c.queue.Status(ctx, taskID)
	if err != nil {
		return TaskUnknown, fmt.Errorf("task %s status: %w", taskID, err)
	}
	return stateOf(status), nil
}

func stateOf(status backlite.TaskStatus) TaskState {
	switch status {
	case backlite.TaskStatusPending:
		return TaskPending
	case backlite.TaskStatusRunning:
		return TaskRunning
	case backlite.TaskStatusSuccess:
		return TaskSuccess
	case backlite.TaskStatusFailure:
		return TaskFailure
	case backlite.TaskStatusNotFound:
		return TaskNotFound
	default:
		return TaskUnknown
	}
}

// Start runs the workers until ctx is cancelled or Stop is called. A second
// call is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("Task queue started with %d workers", c.workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks to finish. It returns false when ctx expired
// first.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.Started() {
		return true
	}

	log.Println("Stopping task queue...")
	if !c.queue.Stop(ctx) {
		log.Println("Task queue stopped with timeout (some tasks may not have completed)")
		return false
	}
	log.Println("Task queue stopped gracefully")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Started reports whether workers are processing tasks.
func (c *Client) Started() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
