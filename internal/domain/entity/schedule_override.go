package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleOverride is a per-day exception to a doctor's weekly schedule:
// a shortened day, a different break window, or a full day off
// (IsAvailable false). When present it replaces the weekly row for that date.
type ScheduleOverride struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_override_staff_date" json:"staff_id"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_override_staff_date" json:"date"`
	StartTime   string    `gorm:"type:time" json:"start_time,omitempty"`
	EndTime     string    `gorm:"type:time" json:"end_time,omitempty"`
	BreakStart  *string   `gorm:"type:time" json:"break_start,omitempty"`
	BreakEnd    *string   `gorm:"type:time" json:"break_end,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	Reason      string    `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleOverride) TableName() string {
	return "schedule_overrides"
}
