package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID  `json:"doctor_id" validate:"required"`
	DepartmentID    *uuid.UUID `json:"department_id" validate:"omitempty"`
	Date            string     `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Time            string     `json:"time" validate:"required"` // Format: HH:MM
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,min=15,max=120"`
	Type            string     `json:"type" validate:"required,oneof=consultation follow_up checkup emergency"`
	IsEmergency     bool       `json:"is_emergency"`
	Notes           string     `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	DepartmentID    *uuid.UUID      `json:"department_id,omitempty"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	DurationMinutes int             `json:"duration_minutes"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	IsEmergency     bool            `json:"is_emergency"`
	Fee             decimal.Decimal `json:"fee"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
