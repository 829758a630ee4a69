package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// Appointment type constants
const (
	AppointmentTypeConsultation = "consultation"
	AppointmentTypeFollowUp     = "follow_up"
	AppointmentTypeCheckup      = "checkup"
	AppointmentTypeEmergency    = "emergency"
)

// appointmentTransitions defines the closed set of legal status moves.
// Appointments are never deleted; terminal rows stay for audit.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled:  {AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusInProgress: {AppointmentStatusCompleted},
}

// Appointment represents a committed booking for a doctor slot.
// The (doctor_id, date, time) triple is unique among non-cancelled rows;
// the partial unique index in the database enforces it.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DepartmentID    *uuid.UUID        `gorm:"type:uuid;index" json:"department_id,omitempty"`
	Date            time.Time         `gorm:"type:date;not null;index" json:"date"`
	Time            string            `gorm:"type:varchar(5);not null" json:"time"`
	DurationMinutes int               `gorm:"not null;default:30" json:"duration_minutes"`
	Type            string            `gorm:"type:varchar(30);not null" json:"type"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	IsEmergency     bool              `gorm:"not null;default:false" json:"is_emergency"`
	Fee             decimal.Decimal   `gorm:"type:numeric(12,2)" json:"fee"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancelled checks if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsTerminal reports whether the appointment accepts no further transitions.
func (a *Appointment) IsTerminal() bool {
	return len(appointmentTransitions[a.Status]) == 0
}

// ValidAppointmentStatus reports whether s is a member of the closed status set.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}
