package entity

import (
	"time"

	"github.com/google/uuid"
)

// WeeklySchedule represents a doctor's recurring availability for one
// day of the week. At most one row exists per (staff_id, day_of_week).
// Owned and mutated by scheduling administration; the resolver only reads it.
type WeeklySchedule struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_weekly_staff_day" json:"staff_id"`
	DayOfWeek   int       `gorm:"not null;uniqueIndex:uq_weekly_staff_day" json:"day_of_week"`
	StartTime   string    `gorm:"type:time;not null" json:"start_time"`
	EndTime     string    `gorm:"type:time;not null" json:"end_time"`
	BreakStart  *string   `gorm:"type:time" json:"break_start,omitempty"`
	BreakEnd    *string   `gorm:"type:time" json:"break_end,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WeeklySchedule) TableName() string {
	return "weekly_schedules"
}
