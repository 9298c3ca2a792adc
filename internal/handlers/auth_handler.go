package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/config"
	"github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
	"github.com/salonpuntos/loyalty-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterOwnerRequest struct {
	EstablishmentName    string `json:"establishment_name" binding:"required"`
	EstablishmentPhone   string `json:"establishment_phone"`
	EstablishmentAddress string `json:"establishment_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type RegisterClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// RegisterOwner bootstraps the deployment: creates the establishment and
// its owner account in one step.
func (h *AuthHandler) RegisterOwner(c *gin.Context) {
	var req RegisterOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// Single-tenant deployment: one establishment, one owner.
	var count int64
	h.db.Model(&models.Establishment{}).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "establishment_already_exists"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "El dominio del correo no parece válido.",
		})
		return
	}

	est := models.Establishment{
		Name:     req.EstablishmentName,
		Phone:    req.EstablishmentPhone,
		Address:  req.EstablishmentAddress,
		Timezone: timezone.DefaultTimezone,
	}

	if err := h.db.Create(&est).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_establishment"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		EstablishmentID: est.ID,
		Name:            req.Name,
		Email:           email,
		PasswordHash:    string(hashed),
		Phone:           req.Phone,
		Role:            models.RoleOwner,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	h.db.Model(&est).Update("owner_id", user.ID)

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":          userJSON(&user),
		"establishment": establishmentJSON(&est),
		"token":         token,
	})
}

// RegisterClient creates a login plus the loyalty Client record with its
// unique desk code and zero balance.
func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var est models.Establishment
	if err := h.db.First(&est).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "establishment_not_found"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		EstablishmentID: est.ID,
		Name:            req.Name,
		Email:           email,
		PasswordHash:    string(hashed),
		Phone:           req.Phone,
		Role:            models.RoleClient,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	client := models.Client{
		EstablishmentID: est.ID,
		UserID:          &user.ID,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           email,
		Code:            uniqueClientCode(h.db, est.ID),
	}

	if err := h.db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_client"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   userJSON(&user),
		"client": client,
		"token":  token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Establishment").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          userJSON(&user),
		"establishment": establishmentJSON(&user.Establishment),
		"token":         token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":             user.ID,
		"establishmentId": user.EstablishmentID,
		"role":            user.Role,
		"exp":             time.Now().Add(24 * time.Hour).Unix(),
		"iat":             time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- Helpers ---------

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":               u.ID,
		"name":             u.Name,
		"email":            u.Email,
		"phone":            u.Phone,
		"role":             u.Role,
		"establishment_id": u.EstablishmentID,
	}
}

func establishmentJSON(e *models.Establishment) gin.H {
	return gin.H{
		"id":      e.ID,
		"name":    e.Name,
		"phone":   e.Phone,
		"address": e.Address,
	}
}

// uniqueClientCode retries against the per-establishment uniqueness check,
// same bounded loop as canje codes.
func uniqueClientCode(db *gorm.DB, establishmentID uint) string {
	code := ledger.NewClientCode()
	for attempt := 0; attempt < ledger.CodeGenerationAttempts; attempt++ {
		var count int64
		db.Model(&models.Client{}).
			Where("establishment_id = ? AND code = ?", establishmentID, code).
			Count(&count)
		if count == 0 {
			break
		}
		code = ledger.NewClientCode()
	}
	return code
}
