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
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/redemption"
)

// RedemptionHandler exposes the two-phase canje flow. Clients open and
// withdraw their own requests; the owner settles them at the desk.
type RedemptionHandler struct {
	db *gorm.DB

	request  *redemption.RequestRedemption
	confirm  *redemption.ConfirmRedemption
	cancel   *redemption.CancelRedemption
	findCode *redemption.FindRedemptionByCode
	list     *redemption.ListRedemptions
}

func NewRedemptionHandler(
	db *gorm.DB,
	request *redemption.RequestRedemption,
	confirm *redemption.ConfirmRedemption,
	cancel *redemption.CancelRedemption,
	findCode *redemption.FindRedemptionByCode,
	list *redemption.ListRedemptions,
) *RedemptionHandler {
	return &RedemptionHandler{
		db:       db,
		request:  request,
		confirm:  confirm,
		cancel:   cancel,
		findCode: findCode,
		list:     list,
	}
}

type RequestRedemptionRequest struct {
	RewardID uint `json:"reward_id" binding:"required"`
}

// Request opens a pending canje for the logged-in client. The points are
// reserved immediately; the returned code is what the client shows at the
// desk.
func (h *RedemptionHandler) Request(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	var req RequestRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	out, err := h.request.Execute(c.Request.Context(), redemption.RequestRedemptionInput{
		EstablishmentID: establishmentID,
		ClientID:        client.ID,
		RewardID:        req.RewardID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.Created(c, out)
}

// CancelOwn lets the client withdraw their own pending canje. Ownership is
// checked here; the reserved points come back on success.
func (h *RedemptionHandler) CancelOwn(c *gin.Context) {
	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_redemption_id", "Canje inválido.")
		return
	}

	var r models.Redemption
	if err := h.db.First(&r, id).Error; err != nil {
		httperr.NotFound(c, "redemption_not_found", "Canje no encontrado.")
		return
	}
	if r.ClientID != client.ID {
		httperr.NotFound(c, "redemption_not_found", "Canje no encontrado.")
		return
	}

	updated, err := h.cancel.Execute(c.Request.Context(), uint(id))
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *RedemptionHandler) ListOwnPending(c *gin.Context) {
	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	rs, err := h.list.PendingByClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_redemptions", "Error al listar canjes.")
		return
	}

	httpresp.List(c, rs)
}

func (h *RedemptionHandler) ListOwnHistory(c *gin.Context) {
	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	rs, err := h.list.HistoryByClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_redemptions", "Error al listar canjes.")
		return
	}

	httpresp.List(c, rs)
}

// Confirm settles a pending canje at the desk. An overdue one flips to
// expired here instead of confirming.
func (h *RedemptionHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_redemption_id", "Canje inválido.")
		return
	}

	r, err := h.confirm.Execute(c.Request.Context(), uint(id), userID)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// Cancel is the owner-side cancellation of a pending canje, refunding the
// reserved points.
func (h *RedemptionHandler) Cancel(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_redemption_id", "Canje inválido.")
		return
	}

	var r models.Redemption
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&r).Error; err != nil {
		httperr.NotFound(c, "redemption_not_found", "Canje no encontrado.")
		return
	}

	updated, err := h.cancel.Execute(c.Request.Context(), uint(id))
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// FindByCode is the desk lookup by the CJ- code the client presents.
func (h *RedemptionHandler) FindByCode(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	r, err := h.findCode.Execute(c.Request.Context(), establishmentID, c.Param("code"))
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *RedemptionHandler) ListPending(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	rs, err := h.list.PendingByEstablishment(c.Request.Context(), establishmentID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_redemptions", "Error al listar canjes.")
		return
	}

	httpresp.List(c, rs)
}

// ListByClient is the owner view of one client's full canje history.
func (h *RedemptionHandler) ListByClient(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_client_id", "Cliente inválido.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND establishment_id = ?", clientID, establishmentID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente no encontrado.")
		return
	}

	rs, err := h.list.HistoryByClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_redemptions", "Error al listar canjes.")
		return
	}

	httpresp.List(c, rs)
}
