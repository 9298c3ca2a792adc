package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/httpresp"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/appointment"
)

type AppointmentHandler struct {
	db *gorm.DB

	availability *appointment.GetAvailability
	create       *appointment.CreateAppointment
	setStatus    *appointment.SetStatus
	list         *appointment.ListAppointments
}

func NewAppointmentHandler(
	db *gorm.DB,
	availability *appointment.GetAvailability,
	create *appointment.CreateAppointment,
	setStatus *appointment.SetStatus,
	list *appointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		availability: availability,
		create:       create,
		setStatus:    setStatus,
		list:         list,
	}
}

type CreateAppointmentRequest struct {
	ClientID   uint   `json:"client_id"`
	ServiceID  uint   `json:"service_id" binding:"required"`
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Notes      string `json:"notes"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Availability returns the free "HH:MM" starts for employee+service+date.
// Both panels use it to render the slot picker.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	employeeID, err1 := strconv.ParseUint(c.Query("employee_id"), 10, 64)
	serviceID, err2 := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_request", "Empleado o servicio inválido.")
		return
	}

	est, ok := h.loadEstablishment(c, establishmentID)
	if !ok {
		return
	}

	date, err := parseDateIn(est, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida, use YYYY-MM-DD.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		EstablishmentID: establishmentID,
		EmployeeID:      uint(employeeID),
		ServiceID:       uint(serviceID),
		Date:            date,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}

// Create books an appointment from the owner panel on behalf of any
// client.
func (h *AppointmentHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}
	if req.ClientID == 0 {
		httperr.BadRequest(c, "invalid_request", "Falta el cliente.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		EstablishmentID: establishmentID,
		ClientID:        req.ClientID,
		ServiceID:       req.ServiceID,
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
		ActingUserID:    userID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// CreateOwn books an appointment for the logged-in client.
func (h *AppointmentHandler) CreateOwn(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		EstablishmentID: establishmentID,
		ClientID:        client.ID,
		ServiceID:       req.ServiceID,
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
		ActingUserID:    userID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ListByDate is the agenda: all appointments for one local day.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	est, ok := h.loadEstablishment(c, establishmentID)
	if !ok {
		return
	}

	date, err := parseDateIn(est, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida, use YYYY-MM-DD.")
		return
	}

	aps, err := h.list.ByDate(c.Request.Context(), establishmentID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error al listar citas.")
		return
	}

	httpresp.List(c, aps)
}

// ListByMonth feeds the calendar view.
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mes inválido.")
		return
	}

	aps, err := h.list.ByMonth(c.Request.Context(), establishmentID, year, month)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.List(c, aps)
}

// ListOwn returns the logged-in client's appointments.
func (h *AppointmentHandler) ListOwn(c *gin.Context) {
	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	aps, err := h.list.ByClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error al listar citas.")
		return
	}

	httpresp.List(c, aps)
}

// DayStats powers the dashboard counters for one day.
func (h *AppointmentHandler) DayStats(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	est, ok := h.loadEstablishment(c, establishmentID)
	if !ok {
		return
	}

	date, err := parseDateIn(est, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida, use YYYY-MM-DD.")
		return
	}

	stats, err := h.list.DayStats(c.Request.Context(), establishmentID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Error al obtener estadísticas.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SetStatus drives the owner-side state machine (confirm, complete,
// cancel).
func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Cita inválida.")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.setStatus.Execute(c.Request.Context(), appointment.SetStatusInput{
		EstablishmentID: establishmentID,
		AppointmentID:   uint(id),
		NewStatus:       domain.Status(req.Status),
		ActingUserID:    userID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// CancelOwn lets a client cancel their own appointment. Cancellation is
// the only transition a client may perform.
func (h *AppointmentHandler) CancelOwn(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	client, ok := currentClient(c, h.db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Cita inválida.")
		return
	}

	ap, err := h.setStatus.Execute(c.Request.Context(), appointment.SetStatusInput{
		EstablishmentID: establishmentID,
		AppointmentID:   uint(id),
		NewStatus:       domain.StatusCancelled,
		AsClient:        true,
		ActingUserID:    userID,
		ActingClientID:  client.ID,
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) loadEstablishment(c *gin.Context, id uint) (*models.Establishment, bool) {
	var est models.Establishment
	if err := h.db.First(&est, id).Error; err != nil {
		httperr.NotFound(c, "establishment_not_found", "Establecimiento no encontrado.")
		return nil, false
	}
	return &est, true
}
