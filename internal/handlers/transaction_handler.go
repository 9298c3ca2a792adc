package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainledger "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	domainschedule "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/dto"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type TransactionHandler struct {
	db   *gorm.DB
	repo domainledger.Repository
}

func NewTransactionHandler(db *gorm.DB, repo domainledger.Repository) *TransactionHandler {
	return &TransactionHandler{db: db, repo: repo}
}

// ListByClient is the owner view of one client's point history.
func (h *TransactionHandler) ListByClient(c *gin.Context) {
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

	txs, err := h.repo.ListTransactionsByClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_transactions", "Error al listar movimientos.")
		return
	}

	httpresp.List(c, txs)
}

// ListOwn returns the logged-in client's point history.
func (h *TransactionHandler) ListOwn(c *gin.Context) {
	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	txs, err := h.repo.ListTransactionsByClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_transactions", "Error al listar movimientos.")
		return
	}

	httpresp.List(c, txs)
}

// DayStats sums today's point movements for the dashboard.
func (h *TransactionHandler) DayStats(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		httperr.NotFound(c, "establishment_not_found", "Establecimiento no encontrado.")
		return
	}

	date, err := parseDateIn(&est, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida, use YYYY-MM-DD.")
		return
	}

	start, end := domainschedule.DayBounds(date)

	earned, redeemed, count, err := h.repo.SumTransactionsForDay(
		c.Request.Context(), establishmentID, start, end)
	if err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Error al obtener estadísticas.")
		return
	}

	c.JSON(http.StatusOK, dto.DailyPointsStatsDTO{
		PointsEarned:      earned,
		PointsRedeemed:    redeemed,
		TransactionsCount: count,
	})
}
