package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.Preload("Establishment").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user":          userJSON(&user),
		"establishment": establishmentJSON(&user.Establishment),
	}

	// Clients also get their loyalty record (code, balance).
	if user.Role == models.RoleClient {
		var client models.Client
		if err := h.db.Where("user_id = ?", user.ID).First(&client).Error; err == nil {
			resp["client"] = client
		}
	}

	c.JSON(http.StatusOK, resp)
}

// currentClient resolves the Client record behind a client-role token.
func currentClient(c *gin.Context, db *gorm.DB) (*models.Client, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var client models.Client
	if err := db.Where("user_id = ?", userID).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found"})
		return nil, false
	}
	return &client, true
}
