package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	// AuditRetentionQueue names the queue that prunes the audit trail. It is
	// also the task type accepted by the manual trigger endpoint.
	AuditRetentionQueue = "cleanup_audit_events"

	defaultAuditRetentionDays = 30
)

// ErrNoAuditMaintainer is returned when an audit retention pass is requested
// but the audit trail is disabled.
var ErrNoAuditMaintainer = errors.New("audit trail is not enabled")

// AuditMaintainer prunes old audit events and records each pruning run in
// the trail itself.
type AuditMaintainer interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
	LogMaintenance(action, description string, err error)
}

// AuditRetentionTask asks a worker to delete audit events older than
// RetentionDays. Zero means the default of 30 days.
type AuditRetentionTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config places retention passes on their own queue. A failed pass is
// retried three times, five minutes apart; finished tasks are kept for a day
// so their state can be polled.
func (t AuditRetentionTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        AuditRetentionQueue,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t AuditRetentionTask) days() int {
	if t.RetentionDays <= 0 {
		return defaultAuditRetentionDays
	}
	return t.RetentionDays
}

// PruneAuditTrail runs one retention pass synchronously and returns the
// number of deleted events. The outcome, failure included, is written to the
// trail as a maintenance event.
func PruneAuditTrail(m AuditMaintainer, task AuditRetentionTask) (int64, error) {
	if m == nil {
		return 0, ErrNoAuditMaintainer
	}

	days := task.days()
	deleted, err := m.DeleteOldEvents(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		err = fmt.Errorf("prune audit trail: %w", err)
	}
	m.LogMaintenance("audit_cleanup",
		fmt.Sprintf("Deleted %d audit events older than %d days", deleted, days), err)
	if err != nil {
		return 0, err
	}

	log.Printf("[TASK] Pruned %d audit events older than %d days", deleted, days)
	return deleted, nil
}

func auditRetentionQueue(m AuditMaintainer) backlite.Queue {
	return backlite.NewQueue(func(_ context.Context, task AuditRetentionTask) error {
		_, err := PruneAuditTrail(m, task)
		return err
	})
}
