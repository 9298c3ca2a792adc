package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/points"
)

// PointsHandler covers the owner-side ledger operations: crediting points
// after a visit and the one-phase desk redemption.
type PointsHandler struct {
	earn   *points.EarnPoints
	redeem *points.RedeemDirect
}

func NewPointsHandler(earn *points.EarnPoints, redeem *points.RedeemDirect) *PointsHandler {
	return &PointsHandler{earn: earn, redeem: redeem}
}

type EarnPointsRequest struct {
	ClientID uint   `json:"client_id" binding:"required"`
	Amount   int    `json:"amount" binding:"required"`
	Notes    string `json:"notes"`
}

type RedeemDirectRequest struct {
	ClientID uint `json:"client_id" binding:"required"`
	RewardID uint `json:"reward_id" binding:"required"`
}

func (h *PointsHandler) Earn(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req EarnPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	tx, err := h.earn.Execute(c.Request.Context(), points.EarnPointsInput{
		EstablishmentID: establishmentID,
		ClientID:        req.ClientID,
		Amount:          req.Amount,
		Notes:           req.Notes,
		ActingUserID:    userID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.Created(c, tx)
}

func (h *PointsHandler) RedeemDirect(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req RedeemDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	tx, err := h.redeem.Execute(c.Request.Context(), points.RedeemDirectInput{
		EstablishmentID: establishmentID,
		ClientID:        req.ClientID,
		RewardID:        req.RewardID,
		ActingUserID:    userID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.Created(c, tx)
}
