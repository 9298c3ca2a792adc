package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/storage"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

type EstablishmentHandler struct {
	db    *gorm.DB
	media *storage.MediaStore
}

func NewEstablishmentHandler(db *gorm.DB, media *storage.MediaStore) *EstablishmentHandler {
	return &EstablishmentHandler{db: db, media: media}
}

type UpdateEstablishmentRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Description    *string `json:"description"`
	CurrencyName   *string `json:"currency_name"`
	CurrencySymbol *string `json:"currency_symbol"`
	Timezone       *string `json:"timezone"`
}

type BusinessDayConfig struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Closed  bool   `json:"closed"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required"`
}

func (h *EstablishmentHandler) Get(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "establishment_not_found"})
		return
	}

	c.JSON(http.StatusOK, est)
}

func (h *EstablishmentHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "establishment_not_found"})
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CurrencyName != nil {
		updates["currency_name"] = *req.CurrencyName
	}
	if req.CurrencySymbol != nil {
		updates["currency_symbol"] = *req.CurrencySymbol
	}
	if req.Timezone != nil && timezone.IsValid(*req.Timezone) {
		updates["timezone"] = *req.Timezone
	}

	if len(updates) > 0 {
		if err := h.db.Model(&est).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_establishment"})
			return
		}
	}

	c.JSON(http.StatusOK, est)
}

// UploadLogo shrinks and re-encodes the submitted image, stores it and
// saves the public URL on the establishment.
func (h *EstablishmentHandler) UploadLogo(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "establishment_not_found"})
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_logo"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_read_logo"})
		return
	}
	defer file.Close()

	encoded, err := storage.ProcessImage(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_image"})
		return
	}

	key := fmt.Sprintf("establishments/%d/logo-%d.webp", est.ID, time.Now().Unix())
	url, err := h.media.Upload(c.Request.Context(), key, encoded, "image/webp")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_upload_logo"})
		return
	}

	if err := h.db.Model(&est).Update("logo_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_establishment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

func (h *EstablishmentHandler) GetHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var hours []models.BusinessHour
	if err := h.db.
		Where("establishment_id = ?", establishmentID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_business_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

// UpdateHours replaces the establishment's weekly schedule wholesale.
func (h *EstablishmentHandler) UpdateHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	if err := h.db.
		Where("establishment_id = ?", establishmentID).
		Delete(&models.BusinessHour{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.BusinessHour
	for _, d := range req.Days {
		toCreate = append(toCreate, models.BusinessHour{
			EstablishmentID: establishmentID,
			Weekday:         d.Weekday,
			Closed:          d.Closed,
			Open:            d.Open,
			Close:           d.Close,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_business_hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
