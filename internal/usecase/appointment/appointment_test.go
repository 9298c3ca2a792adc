package appointment

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/schedule"
	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

type fakeSchedule struct {
	establishment *models.Establishment
	services      map[uint]*models.Service
	employees     map[uint]*models.Employee
	clients       map[uint]*models.Client

	employeeWeek      domain.WeekSchedule
	establishmentWeek domain.WeekSchedule

	appointments map[uint]*models.Appointment
	nextID       uint
}

func newFakeSchedule() *fakeSchedule {
	return &fakeSchedule{
		establishment: &models.Establishment{ID: 1, Name: "Salón Puntos", Timezone: "UTC"},
		services:      map[uint]*models.Service{},
		employees:     map[uint]*models.Employee{},
		clients:       map[uint]*models.Client{},

		employeeWeek:      domain.WeekSchedule{},
		establishmentWeek: domain.WeekSchedule{},

		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

func (f *fakeSchedule) GetEstablishment(_ context.Context, id uint) (*models.Establishment, error) {
	if f.establishment.ID != id {
		return nil, errors.New("not found")
	}
	return f.establishment, nil
}

func (f *fakeSchedule) GetService(_ context.Context, estID, id uint) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok || s.EstablishmentID != estID {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (f *fakeSchedule) GetEmployee(_ context.Context, estID, id uint) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.EstablishmentID != estID {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (f *fakeSchedule) GetClient(_ context.Context, id uint) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (f *fakeSchedule) EmployeeWeek(_ context.Context, _ uint) (domain.WeekSchedule, error) {
	return f.employeeWeek, nil
}

func (f *fakeSchedule) EstablishmentWeek(_ context.Context, _ uint) (domain.WeekSchedule, error) {
	return f.establishmentWeek, nil
}

func (f *fakeSchedule) ListBusyIntervals(_ context.Context, employeeID uint, start, end time.Time) ([]domain.BusyInterval, error) {
	var busy []domain.BusyInterval
	for _, ap := range f.appointments {
		if ap.EmployeeID != employeeID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			busy = append(busy, domain.BusyInterval{Start: ap.StartTime, End: ap.EndTime})
		}
	}
	return busy, nil
}

func (f *fakeSchedule) CreateAppointmentSerialized(_ context.Context, ap *models.Appointment) error {
	for _, existing := range f.appointments {
		if existing.EmployeeID != ap.EmployeeID || existing.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime.Before(existing.EndTime) && ap.EndTime.After(existing.StartTime) {
			return httperr.ErrBusinessDetail("time_conflict", "este horario ya está ocupado")
		}
	}
	ap.ID = f.nextID
	f.nextID++
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeSchedule) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return ap, nil
}

func (f *fakeSchedule) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeSchedule) ListForEstablishment(_ context.Context, estID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.EstablishmentID == estID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeSchedule) ListForClient(_ context.Context, clientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ClientID == clientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeSchedule)(nil)

func seedBooking(f *fakeSchedule) {
	f.services[2] = &models.Service{ID: 2, EstablishmentID: 1, Name: "Corte", DurationMin: 45, Active: true}
	f.employees[3] = &models.Employee{ID: 3, EstablishmentID: 1, Name: "Luis", Active: true}
	f.clients[4] = &models.Client{ID: 4, EstablishmentID: 1, Name: "María"}
}

func TestCreateCopiesServiceDuration(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)

	uc := NewCreateAppointment(f, nil, nil)
	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ap.DurationMin != 45 {
		t.Errorf("duration = %d, want 45 copied from the service", ap.DurationMin)
	}
	if !ap.EndTime.Equal(ap.StartTime.Add(45 * time.Minute)) {
		t.Errorf("end = %v, want start+45m", ap.EndTime)
	}
	if ap.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, want pending", ap.Status)
	}

	// A later service edit must not resize the booking.
	f.services[2].DurationMin = 60
	if f.appointments[ap.ID].DurationMin != 45 {
		t.Error("booking duration followed the service edit")
	}
}

func TestCreateRequiresAllFields(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)

	uc := NewCreateAppointment(f, nil, nil)
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", // no time
	})
	if !httperr.IsBusiness(err, "validation_failed") {
		t.Fatalf("want validation_failed, got %v", err)
	}
}

func TestCreateRejectsMalformedTime(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)

	uc := NewCreateAppointment(f, nil, nil)
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", Time: "25:99",
	})
	if !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Fatalf("want invalid_date_or_time, got %v", err)
	}
}

func TestCreateConflictOnOverlap(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)

	uc := NewCreateAppointment(f, nil, nil)
	if _, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:00",
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// 10:30 overlaps the 10:00-10:45 booking.
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:30",
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("want time_conflict, got %v", err)
	}
}

func TestCreateBoundaryTouchDoesNotConflict(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	f.services[5] = &models.Service{ID: 5, EstablishmentID: 1, Name: "Rápido", DurationMin: 30, Active: true}

	uc := NewCreateAppointment(f, nil, nil)
	if _, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 5, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:00",
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	if _, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 5, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:30",
	}); err != nil {
		t.Fatalf("back-to-back booking should succeed: %v", err)
	}
}

func TestCreateInactiveService(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	f.services[2].Active = false

	uc := NewCreateAppointment(f, nil, nil)
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:00",
	})
	if !httperr.IsBusiness(err, "service_inactive") {
		t.Fatalf("want service_inactive, got %v", err)
	}
}

func bookOne(t *testing.T, f *fakeSchedule) *models.Appointment {
	t.Helper()
	uc := NewCreateAppointment(f, nil, nil)
	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		EstablishmentID: 1, ClientID: 4, ServiceID: 2, EmployeeID: 3,
		Date: "2025-06-02", Time: "10:00",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	return ap
}

func TestSetStatusLegalFlow(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	ap := bookOne(t, f)

	uc := NewSetStatus(f, nil, nil)

	got, err := uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: domain.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %q", got.Status)
	}

	got, err = uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: domain.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if got.CompletedAt == nil {
		t.Error("completed_at not stamped")
	}
}

func TestSetStatusRejectsIllegalMoves(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	ap := bookOne(t, f)

	uc := NewSetStatus(f, nil, nil)

	// pending cannot jump straight to completed.
	_, err := uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: domain.StatusCompleted,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("want invalid_state, got %v", err)
	}

	_, err = uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: "archived",
	})
	if !httperr.IsBusiness(err, "validation_failed") {
		t.Fatalf("want validation_failed, got %v", err)
	}
}

func TestSetStatusClientRules(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	ap := bookOne(t, f)

	uc := NewSetStatus(f, nil, nil)

	// Clients may only cancel.
	_, err := uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: domain.StatusConfirmed,
		AsClient: true, ActingClientID: 4,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("want invalid_state, got %v", err)
	}

	// Another client's appointment reads as missing.
	_, err = uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: domain.StatusCancelled,
		AsClient: true, ActingClientID: 99,
	})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("want appointment_not_found, got %v", err)
	}

	// The owner of the booking can cancel it.
	got, err := uc.Execute(context.Background(), SetStatusInput{
		EstablishmentID: 1, AppointmentID: ap.ID, NewStatus: domain.StatusCancelled,
		AsClient: true, ActingClientID: 4,
	})
	if err != nil {
		t.Fatalf("client cancel failed: %v", err)
	}
	if got.CancelledAt == nil {
		t.Error("cancelled_at not stamped")
	}
}

func TestAvailabilityEmployeeHoursWin(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	// 2025-06-02 is a Monday.
	f.employeeWeek[time.Monday] = domain.DayWindow{Start: "12:00", End: "14:00"}
	f.establishmentWeek[time.Monday] = domain.DayWindow{Start: "09:00", End: "18:00"}

	uc := NewGetAvailability(f, nil)
	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		EstablishmentID: 1, EmployeeID: 3, ServiceID: 2,
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 45-minute service within 12:00-14:00.
	want := []string{"12:00", "12:30", "13:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestAvailabilityFallsBackToEstablishment(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	f.establishmentWeek[time.Monday] = domain.DayWindow{Start: "09:00", End: "11:00"}

	uc := NewGetAvailability(f, nil)
	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		EstablishmentID: 1, EmployeeID: 3, ServiceID: 2,
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestAvailabilityNonWorkingDayIsEmpty(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	f.establishmentWeek[time.Monday] = domain.DayWindow{Start: "09:00", End: "18:00"}

	uc := NewGetAvailability(f, nil)
	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		EstablishmentID: 1, EmployeeID: 3, ServiceID: 2,
		// 2025-06-01 is a Sunday; nobody configured it.
		Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("slots = %v, want empty", slots)
	}
}

func TestAvailabilityExcludesBookedSlots(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	f.establishmentWeek[time.Monday] = domain.DayWindow{Start: "09:00", End: "11:00"}
	bookOne(t, f) // 10:00-10:45

	uc := NewGetAvailability(f, nil)
	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		EstablishmentID: 1, EmployeeID: 3, ServiceID: 2,
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00 ends 09:45 (free), 09:30 would end 10:15 (overlap), 10:00
	// occupied.
	want := []string{"09:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestAvailabilityIgnoresCancelledBookings(t *testing.T) {
	f := newFakeSchedule()
	seedBooking(f)
	f.establishmentWeek[time.Monday] = domain.DayWindow{Start: "09:00", End: "11:00"}
	ap := bookOne(t, f)
	ap.Status = string(domain.StatusCancelled)

	uc := NewGetAvailability(f, nil)
	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		EstablishmentID: 1, EmployeeID: 3, ServiceID: 2,
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}
