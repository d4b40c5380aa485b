package audit

import (
	"log"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

// Origin identifies the request behind a recorded change.
type Origin struct {
	RequestID string
	IPAddress string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogChange records a mutation of a library record, e.g. a created loan or
// a deleted book. The action is derived as "<entity>_<event>".
func (s *Service) LogChange(origin Origin, eventType entities.AuditEventType, entityType, entityKey, description string) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: truncate(description, 500),
		EntityType:  entityType,
		EntityKey:   entityKey,
		RequestID:   origin.RequestID,
		IPAddress:   origin.IPAddress,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogMaintenance records a background housekeeping run.
func (s *Service) LogMaintenance(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintain,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetRecentEvents returns the latest events, newest first.
func (s *Service) GetRecentEvents(limit int) ([]entities.AuditEvent, error) {
	return s.repo.GetRecentEvents(limit)
}

// GetEventsForEntity returns the history of one record.
func (s *Service) GetEventsForEntity(entityType, entityKey string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(entityType, entityKey)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen bytes, ending in "...". The cut
// never splits a multi-byte character.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
