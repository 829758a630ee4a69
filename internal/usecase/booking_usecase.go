package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-scheduling/internal/converter"
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/delivery/http/middleware"
	"hospital-scheduling/internal/domain/entity"
	"hospital-scheduling/internal/domain/repository"
	"hospital-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotConflict           = errors.New("slot is already booked")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrAppointmentNotOwned    = errors.New("appointment does not belong to you")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrStaffOnlyTransition    = errors.New("status transition requires staff privileges")
	ErrPastSlot               = errors.New("cannot book a slot in the past")
)

// consultationFees maps appointment type to the charged fee.
var consultationFees = map[string]decimal.Decimal{
	entity.AppointmentTypeConsultation: decimal.NewFromInt(150),
	entity.AppointmentTypeFollowUp:     decimal.NewFromInt(100),
	entity.AppointmentTypeCheckup:      decimal.NewFromInt(200),
	entity.AppointmentTypeEmergency:    decimal.NewFromInt(350),
}

// SlotFreedHandler receives the synchronous slot-freed callback fired when
// a cancellation opens up a slot. Implemented by the waitlist engine.
type SlotFreedHandler interface {
	HandleSlotFreed(ctx context.Context, slot entity.FreedSlot) error
}

// BookingUsecase is the single legitimate path for creating appointments
// and driving their status machine.
type BookingUsecase interface {
	Commit(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	slotFreed       SlotFreedHandler
	auditService    service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotFreed SlotFreedHandler,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		slotFreed:       slotFreed,
		auditService:    auditService,
	}
}

// Commit books a slot for the logged-in patient. The uniqueness check and
// the insert are one atomic statement in the repository; a concurrent
// commit for the same slot sees ErrSlotConflict, never a double booking.
func (u *bookingUsecase) Commit(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	slotMinutes, err := parseClock(req.Time)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	// Emergency bookings skip the future-slot rule but still pass through
	// the same uniqueness gate below.
	if !req.IsEmergency {
		slotAt := date.Add(time.Duration(slotMinutes) * time.Minute)
		if !slotAt.After(time.Now()) {
			return nil, ErrPastSlot
		}
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	appointment := &entity.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       patientID,
		DepartmentID:    req.DepartmentID,
		Date:            date,
		Time:            formatClock(slotMinutes),
		DurationMinutes: duration,
		Type:            req.Type,
		Status:          entity.AppointmentStatusScheduled,
		IsEmergency:     req.IsEmergency,
		Fee:             consultationFees[req.Type],
		Notes:           req.Notes,
	}

	created, err := u.appointmentRepo.CreateIfSlotFree(u.db.WithContext(ctx), appointment)
	if err != nil {
		u.log.Warnf("Failed to insert appointment for doctor %s at %s %s: %+v", req.DoctorID, req.Date, req.Time, err)
		return nil, err
	}
	if !created {
		return nil, ErrSlotConflict
	}

	if err := u.auditService.LogCreate(ctx, u.db.WithContext(ctx), &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment); err != nil {
		u.log.Warnf("Failed to audit appointment create %s: %+v", appointment.ID, err)
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, slot=%s %s", appointment.ID, req.DoctorID, req.Date, appointment.Time)
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateStatus drives the appointment status machine. Each transition is a
// compare-and-set on the expected prior status, so concurrent updates lose
// cleanly instead of clobbering each other. A cancellation fires the
// slot-freed callback synchronously so waitlist promotion can run.
func (u *bookingUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	next := entity.AppointmentStatus(req.Status)
	if !entity.ValidAppointmentStatus(next) {
		return nil, ErrInvalidStateTransition
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	// Patients may confirm or cancel their own appointments. Clinical
	// transitions (in_progress, completed, no_show) are staff actions.
	if roleID, ok := middleware.GetRoleIDFromContext(ctx); ok && roleID == entity.RoleIDPatient {
		if appointment.PatientID != userID {
			return nil, ErrAppointmentNotOwned
		}
		if next != entity.AppointmentStatusConfirmed && next != entity.AppointmentStatusCancelled {
			return nil, ErrStaffOnlyTransition
		}
	}

	if !appointment.CanTransitionTo(next) {
		return nil, ErrInvalidStateTransition
	}

	affected, err := u.appointmentRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID, appointment.Status, next)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		// Status changed underneath us between the read and the update.
		return nil, ErrInvalidStateTransition
	}

	action := entity.AuditActionAppointmentStatus
	if next == entity.AppointmentStatusCancelled {
		action = entity.AuditActionAppointmentCancel
	}
	if err := u.auditService.LogTransition(ctx, u.db.WithContext(ctx), &userID, action, "appointment", appointmentID.String(), string(appointment.Status), string(next)); err != nil {
		u.log.Warnf("Failed to audit appointment transition %s: %+v", appointmentID, err)
	}

	prior := appointment.Status
	appointment.Status = next

	if next == entity.AppointmentStatusCancelled {
		freed := entity.FreedSlot{
			DoctorID:     appointment.DoctorID,
			DepartmentID: appointment.DepartmentID,
			Date:         appointment.Date,
			Time:         appointment.Time,
		}
		// Promotion is best-effort: the cancellation already succeeded, and
		// the freed slot stays an ordinary bookable opening if this fails.
		if err := u.slotFreed.HandleSlotFreed(ctx, freed); err != nil {
			u.log.Warnf("Waitlist promotion after cancelling %s failed: %+v", appointmentID, err)
		}
	}

	u.log.Infof("Appointment %s: %s -> %s", appointmentID, prior, next)
	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments returns all appointments for the logged-in patient
func (u *bookingUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetDoctorAppointments returns a doctor's appointments, optionally for one date
func (u *bookingUsecase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{DoctorID: &doctorID}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.DateFrom = date
		filter.DateTo = date
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
