package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

const auditLogDefaultLimit = 100

type AuditLogHandler struct {
	db *gorm.DB
}

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler {
	return &AuditLogHandler{db: db}
}

func (h *AuditLogHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	limit := auditLogDefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	q := h.db.Where("establishment_id = ?", establishmentID)
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Error al listar el historial.")
		return
	}

	httpresp.List(c, logs)
}
