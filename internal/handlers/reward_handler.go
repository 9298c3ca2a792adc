package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/storage"
)

const maxRewardImageBytes = 5 << 20

type RewardHandler struct {
	db    *gorm.DB
	media *storage.MediaStore
}

func NewRewardHandler(db *gorm.DB, media *storage.MediaStore) *RewardHandler {
	return &RewardHandler{db: db, media: media}
}

type CreateRewardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Cost        int    `json:"cost" binding:"required,min=1"`
}

type UpdateRewardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cost        *int    `json:"cost"`
	Active      *bool   `json:"active"`
}

func (h *RewardHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	q := h.db.Where("establishment_id = ?", establishmentID)
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var rewards []models.Reward
	if err := q.Order("cost ASC").Find(&rewards).Error; err != nil {
		httperr.Internal(c, "failed_to_list_rewards", "Error al listar recompensas.")
		return
	}

	httpresp.List(c, rewards)
}

func (h *RewardHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	reward := models.Reward{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Description:     req.Description,
		Cost:            req.Cost,
		Active:          true,
	}

	if err := h.db.Create(&reward).Error; err != nil {
		httperr.Internal(c, "failed_to_create_reward", "Error al crear recompensa.")
		return
	}

	httpresp.Created(c, reward)
}

func (h *RewardHandler) Get(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	reward, ok := h.loadReward(c, establishmentID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, reward)
}

func (h *RewardHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	reward, ok := h.loadReward(c, establishmentID)
	if !ok {
		return
	}

	var req UpdateRewardRequest
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
	if req.Cost != nil {
		if *req.Cost <= 0 {
			httperr.BadRequest(c, "invalid_cost", "El costo debe ser mayor a cero.")
			return
		}
		updates["cost"] = *req.Cost
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(reward).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_reward", "Error al actualizar recompensa.")
			return
		}
	}

	c.JSON(http.StatusOK, reward)
}

// Delete deactivates. Pending redemptions keep their snapshotted name and
// cost, so the two-phase flow still settles.
func (h *RewardHandler) Delete(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	reward, ok := h.loadReward(c, establishmentID)
	if !ok {
		return
	}

	if err := h.db.Model(reward).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_reward", "Error al eliminar recompensa.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadImage accepts a multipart file, shrinks and re-encodes it, pushes
// it to object storage and saves the resulting URL on the reward.
func (h *RewardHandler) UploadImage(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	reward, ok := h.loadReward(c, establishmentID)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Falta el archivo de imagen.")
		return
	}
	if fileHeader.Size > maxRewardImageBytes {
		httperr.BadRequest(c, "image_too_large", "La imagen supera el tamaño máximo de 5MB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Error al leer la imagen.")
		return
	}
	defer file.Close()

	encoded, err := storage.ProcessImage(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "El archivo no es una imagen válida.")
		return
	}

	key := fmt.Sprintf("rewards/%d/%d-%d.webp", establishmentID, reward.ID, time.Now().Unix())
	url, err := h.media.Upload(c.Request.Context(), key, encoded, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Error al subir la imagen.")
		return
	}

	if err := h.db.Model(reward).Update("image_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_reward", "Error al guardar la imagen.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func (h *RewardHandler) loadReward(c *gin.Context, establishmentID uint) (*models.Reward, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_reward_id", "Recompensa inválida.")
		return nil, false
	}

	var reward models.Reward
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&reward).Error; err != nil {
		httperr.NotFound(c, "reward_not_found", "Recompensa no encontrada.")
		return nil, false
	}
	return &reward, true
}
