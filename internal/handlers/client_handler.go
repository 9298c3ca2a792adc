package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// List supports the clients table: plain listing, text search, or
// top-by-balance.
func (h *ClientHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	q := h.db.Where("establishment_id = ?", establishmentID)

	if search := strings.TrimSpace(c.Query("query")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		codeSearch := ledger.NormalizeClientCode(search)
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR code = ?",
			like, like, "%"+search+"%", codeSearch,
		)
	}

	if c.Query("sort") == "balance" {
		q = q.Order("balance DESC")
	} else {
		q = q.Order("name ASC")
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			q = q.Limit(limit)
		}
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Error al listar clientes.")
		return
	}

	httpresp.List(c, clients)
}

// Create registers a walk-in client directly from the owner panel, no
// login attached.
func (h *ClientHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	client := models.Client{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Code:            uniqueClientCode(h.db, establishmentID),
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Error al crear cliente.")
		return
	}

	httpresp.Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	client, ok := h.loadClient(c, establishmentID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	client, ok := h.loadClient(c, establishmentID)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if len(updates) > 0 {
		if err := h.db.Model(client).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_client", "Error al actualizar cliente.")
			return
		}
	}

	c.JSON(http.StatusOK, client)
}

// Delete removes the client record only. Transactions are never deleted.
func (h *ClientHandler) Delete(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	client, ok := h.loadClient(c, establishmentID)
	if !ok {
		return
	}

	if err := h.db.Delete(client).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Error al eliminar cliente.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetByCode is the desk lookup: the owner types or scans the code the
// client presents. Input tolerates the display hyphen and lowercase.
func (h *ClientHandler) GetByCode(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	code := ledger.NormalizeClientCode(c.Param("code"))

	var client models.Client
	if err := h.db.
		Where("establishment_id = ? AND code = ?", establishmentID, code).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente no encontrado.")
		return
	}

	c.JSON(http.StatusOK, client)
}

// QRCode renders the client's code as a PNG for printing or on-screen
// display at the desk.
func (h *ClientHandler) QRCode(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	client, ok := h.loadClient(c, establishmentID)
	if !ok {
		return
	}

	png, err := qrcode.Encode(client.Code, qrcode.Medium, 256)
	if err != nil {
		httperr.Internal(c, "failed_to_render_qr", "Error al generar código QR.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *ClientHandler) loadClient(c *gin.Context, establishmentID uint) (*models.Client, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_client_id", "Cliente inválido.")
		return nil, false
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente no encontrado.")
		return nil, false
	}
	return &client, true
}
