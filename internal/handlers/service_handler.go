package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	DurationMin int      `json:"duration_min" binding:"required,min=1"`
	Price       *float64 `json:"price"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Active      *bool    `json:"active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	q := h.db.Where("establishment_id = ?", establishmentID)
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error al listar servicios.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	service := models.Service{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMin:     req.DurationMin,
		Price:           req.Price,
		Active:          true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Error al crear servicio.")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	service, ok := h.loadService(c, establishmentID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	service, ok := h.loadService(c, establishmentID)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "La duración debe ser mayor a cero.")
			return
		}
		updates["duration_min"] = *req.DurationMin
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(service).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_service", "Error al actualizar servicio.")
			return
		}
	}

	c.JSON(http.StatusOK, service)
}

// Delete deactivates. Existing appointments keep their copied duration, so
// nothing downstream breaks.
func (h *ServiceHandler) Delete(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	service, ok := h.loadService(c, establishmentID)
	if !ok {
		return
	}

	if err := h.db.Model(service).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Error al eliminar servicio.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ServiceHandler) loadService(c *gin.Context, establishmentID uint) (*models.Service, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Servicio inválido.")
		return nil, false
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Servicio no encontrado.")
		return nil, false
	}
	return &service, true
}
