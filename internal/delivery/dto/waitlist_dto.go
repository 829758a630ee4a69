package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateWaitlistRequest struct {
	DoctorID           *uuid.UUID `json:"doctor_id" validate:"omitempty"`
	DepartmentID       *uuid.UUID `json:"department_id" validate:"omitempty"`
	PreferredDateStart string     `json:"preferred_date_start" validate:"required"` // Format: YYYY-MM-DD
	PreferredDateEnd   string     `json:"preferred_date_end" validate:"omitempty"`  // Format: YYYY-MM-DD
	PreferredTimeSlots []string   `json:"preferred_time_slots" validate:"omitempty,dive,oneof=morning afternoon evening"`
	Priority           string     `json:"priority" validate:"omitempty,oneof=urgent high normal low"`
	Reason             string     `json:"reason" validate:"omitempty,max=2000"`
}

// Response DTOs

type WaitlistEntryResponse struct {
	ID                 uuid.UUID  `json:"id"`
	PatientID          uuid.UUID  `json:"patient_id"`
	DoctorID           *uuid.UUID `json:"doctor_id,omitempty"`
	DepartmentID       *uuid.UUID `json:"department_id,omitempty"`
	PreferredDateStart string     `json:"preferred_date_start"`
	PreferredDateEnd   string     `json:"preferred_date_end,omitempty"`
	PreferredTimeSlots []string   `json:"preferred_time_slots,omitempty"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	Reason             string     `json:"reason,omitempty"`
	NotifiedAt         *time.Time `json:"notified_at,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type WaitlistListResponse struct {
	Entries []WaitlistEntryResponse `json:"entries"`
	Total   int                     `json:"total"`
}

type WaitlistStatsResponse struct {
	ActiveTotal int64            `json:"active_total"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByPriority  map[string]int64 `json:"by_priority"`
}
