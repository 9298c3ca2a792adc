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

type EmployeeHandler struct {
	db *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

type CreateEmployeeRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	SpecialtyIDs []uint `json:"specialty_ids"`
}

type UpdateEmployeeRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Active       *bool   `json:"active"`
	SpecialtyIDs []uint  `json:"specialty_ids"`
}

type EmployeeHourEntry struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	q := h.db.Preload("Specialties").
		Where("establishment_id = ?", establishmentID)

	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}
	if serviceIDStr := c.Query("service_id"); serviceIDStr != "" {
		serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Servicio inválido.")
			return
		}
		q = q.Joins("JOIN employee_specialties es ON es.employee_id = employees.id").
			Where("es.service_id = ?", serviceID)
	}

	var employees []models.Employee
	if err := q.Order("name ASC").Find(&employees).Error; err != nil {
		httperr.Internal(c, "failed_to_list_employees", "Error al listar empleados.")
		return
	}

	httpresp.List(c, employees)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	employee := models.Employee{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Active:          true,
	}

	if len(req.SpecialtyIDs) > 0 {
		specialties, ok := h.loadSpecialties(c, establishmentID, req.SpecialtyIDs)
		if !ok {
			return
		}
		employee.Specialties = specialties
	}

	if err := h.db.Create(&employee).Error; err != nil {
		httperr.Internal(c, "failed_to_create_employee", "Error al crear empleado.")
		return
	}

	httpresp.Created(c, employee)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	employee, ok := h.loadEmployee(c, establishmentID, true)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	employee, ok := h.loadEmployee(c, establishmentID, false)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
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
		updates["email"] = *req.Email
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(employee).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_employee", "Error al actualizar empleado.")
			return
		}
	}

	if req.SpecialtyIDs != nil {
		specialties, ok := h.loadSpecialties(c, establishmentID, req.SpecialtyIDs)
		if !ok {
			return
		}
		if err := h.db.Model(employee).Association("Specialties").Replace(specialties); err != nil {
			httperr.Internal(c, "failed_to_update_employee", "Error al actualizar especialidades.")
			return
		}
	}

	c.JSON(http.StatusOK, employee)
}

// Delete deactivates rather than removes: past appointments keep their
// employee reference.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	employee, ok := h.loadEmployee(c, establishmentID, false)
	if !ok {
		return
	}

	if err := h.db.Model(employee).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_employee", "Error al eliminar empleado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *EmployeeHandler) GetHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	employee, ok := h.loadEmployee(c, establishmentID, false)
	if !ok {
		return
	}

	var hours []models.EmployeeHour
	if err := h.db.
		Where("employee_id = ?", employee.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_get_hours", "Error al obtener horarios.")
		return
	}

	httpresp.List(c, hours)
}

// UpdateHours replaces the employee's weekly schedule in one shot. Posting
// an empty list clears the override and the employee falls back to the
// establishment's hours.
func (h *EmployeeHandler) UpdateHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	employee, ok := h.loadEmployee(c, establishmentID, false)
	if !ok {
		return
	}

	var req []EmployeeHourEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employee.ID).
			Delete(&models.EmployeeHour{}).Error; err != nil {
			return err
		}
		for _, entry := range req {
			hour := models.EmployeeHour{
				EmployeeID: employee.ID,
				Weekday:    entry.Weekday,
				StartTime:  entry.StartTime,
				EndTime:    entry.EndTime,
			}
			if err := tx.Create(&hour).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_hours", "Error al actualizar horarios.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *EmployeeHandler) loadEmployee(c *gin.Context, establishmentID uint, withSpecialties bool) (*models.Employee, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_employee_id", "Empleado inválido.")
		return nil, false
	}

	q := h.db
	if withSpecialties {
		q = q.Preload("Specialties")
	}

	var employee models.Employee
	if err := q.Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&employee).Error; err != nil {
		httperr.NotFound(c, "employee_not_found", "Empleado no encontrado.")
		return nil, false
	}
	return &employee, true
}

func (h *EmployeeHandler) loadSpecialties(c *gin.Context, establishmentID uint, ids []uint) ([]models.Service, bool) {
	var specialties []models.Service
	if err := h.db.
		Where("id IN ? AND establishment_id = ?", ids, establishmentID).
		Find(&specialties).Error; err != nil {
		httperr.Internal(c, "failed_to_load_services", "Error al cargar servicios.")
		return nil, false
	}
	if len(specialties) != len(ids) {
		httperr.BadRequest(c, "service_not_found", "Algún servicio no existe.")
		return nil, false
	}
	return specialties, true
}
