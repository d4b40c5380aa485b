package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// TaskEnqueuer hands retention passes to the background task queue.
type TaskEnqueuer interface {
	EnqueueAuditRetention(ctx context.Context, retentionDays int) (string, error)
}

// AuditCleanupScheduler periodically prunes audit events past their retention.
// With a task queue the cleanup is enqueued, otherwise it runs inline.
type AuditCleanupScheduler struct {
	schedule      string
	retentionDays int
	enqueuer      TaskEnqueuer
	maintainer    tasks.AuditMaintainer

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a new scheduler instance. enqueuer may be nil.
func NewAuditCleanupScheduler(schedule string, retentionDays int, enqueuer TaskEnqueuer, maintainer tasks.AuditMaintainer) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		enqueuer:      enqueuer,
		maintainer:    maintainer,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start registers the cleanup job and runs until ctx is cancelled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s', retention %d days", s.schedule, s.retentionDays)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	done := s.cron.Stop()
	<-done.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false

	log.Printf("Audit cleanup scheduler: stopped")
}

// RunNow performs one cleanup pass.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) {
	if s.enqueuer != nil {
		id, err := s.enqueuer.EnqueueAuditRetention(ctx, s.retentionDays)
		if err != nil {
			log.Printf("Audit cleanup: failed to enqueue task: %v", err)
			return
		}
		log.Printf("Audit cleanup: enqueued task %s", id)
		return
	}

	task := tasks.AuditRetentionTask{RetentionDays: s.retentionDays}
	if _, err := tasks.PruneAuditTrail(s.maintainer, task); err != nil {
		log.Printf("Audit cleanup: %v", err)
	}
}

// IsRunning returns whether the scheduler is active
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur
func (s *AuditCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
