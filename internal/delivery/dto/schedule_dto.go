package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateWeeklyScheduleRequest struct {
	StaffID     uuid.UUID `json:"staff_id" validate:"required"`
	DayOfWeek   *int      `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime   string    `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime     string    `json:"end_time" validate:"required"`   // Format: HH:MM
	BreakStart  string    `json:"break_start" validate:"omitempty"`
	BreakEnd    string    `json:"break_end" validate:"omitempty"`
	IsAvailable *bool     `json:"is_available" validate:"omitempty"`
}

type UpdateWeeklyScheduleRequest struct {
	StartTime   string `json:"start_time" validate:"omitempty"`
	EndTime     string `json:"end_time" validate:"omitempty"`
	BreakStart  string `json:"break_start" validate:"omitempty"`
	BreakEnd    string `json:"break_end" validate:"omitempty"`
	IsAvailable *bool  `json:"is_available" validate:"omitempty"`
}

type CreateScheduleOverrideRequest struct {
	StaffID     uuid.UUID `json:"staff_id" validate:"required"`
	Date        string    `json:"date" validate:"required"` // Format: YYYY-MM-DD
	StartTime   string    `json:"start_time" validate:"omitempty"`
	EndTime     string    `json:"end_time" validate:"omitempty"`
	BreakStart  string    `json:"break_start" validate:"omitempty"`
	BreakEnd    string    `json:"break_end" validate:"omitempty"`
	IsAvailable *bool     `json:"is_available" validate:"omitempty"`
	Reason      string    `json:"reason" validate:"omitempty,max=255"`
}

// Response DTOs

type WeeklyScheduleResponse struct {
	ID          int       `json:"id"`
	StaffID     uuid.UUID `json:"staff_id"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	BreakStart  string    `json:"break_start,omitempty"`
	BreakEnd    string    `json:"break_end,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WeeklyScheduleListResponse struct {
	Schedules []WeeklyScheduleResponse `json:"schedules"`
	Total     int                      `json:"total"`
}

type ScheduleOverrideResponse struct {
	ID          int       `json:"id"`
	StaffID     uuid.UUID `json:"staff_id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	BreakStart  string    `json:"break_start,omitempty"`
	BreakEnd    string    `json:"break_end,omitempty"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ScheduleOverrideListResponse struct {
	Overrides []ScheduleOverrideResponse `json:"overrides"`
	Total     int                        `json:"total"`
}
