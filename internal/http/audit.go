package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

// auditWindow is the fixed number of events returned by GET /audit.
const auditWindow = 100

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

// GetAuditEvents returns the most recent audit events, newest first.
// With entity_type and entity_key it returns the full history of that one
// record instead.
// GET /audit?entity_type=book&entity_key=978-3
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityKey := c.Query("entity_key")
	if (entityType == "") != (entityKey == "") {
		respondBadRequest(c, "entity_type and entity_key must be given together")
		return
	}

	var (
		events []entities.AuditEvent
		err    error
	)
	if entityType != "" {
		events, err = ac.reader.GetEventsForEntity(entityType, entityKey)
	} else {
		events, err = ac.reader.GetRecentEvents(auditWindow)
	}
	if err != nil {
		respondServiceError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}
