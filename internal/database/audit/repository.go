package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

const defaultLimit = 100

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetRecentEvents returns the most recent events, newest first.
func (r *Repository) GetRecentEvents(limit int) ([]entities.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	events := []entities.AuditEvent{}
	err := r.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&events).Error
	return events, err
}

// GetEventsForEntity returns every event recorded against one entity.
func (r *Repository) GetEventsForEntity(entityType, entityKey string) ([]entities.AuditEvent, error) {
	events := []entities.AuditEvent{}
	err := r.db.Where("entity_type = ? AND entity_key = ?", entityType, entityKey).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
