package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotReason explains why a slot candidate is unavailable
type SlotReason string

const (
	SlotReasonNone            SlotReason = ""
	SlotReasonBreak           SlotReason = "break"
	SlotReasonAlreadyBooked   SlotReason = "already_booked"
	SlotReasonOutsideSchedule SlotReason = "outside_schedule"
	SlotReasonNoSchedule      SlotReason = "no_schedule_configured"
)

// SlotCandidate is a derived, never-persisted view of one bookable time
// point for a doctor on a date. Generated fresh on every resolution call.
type SlotCandidate struct {
	Time      string     `json:"time"`
	Available bool       `json:"available"`
	Reason    SlotReason `json:"reason,omitempty"`
}

// FreedSlot describes a slot that just became free through a cancellation.
// BookingGate hands it synchronously to the waitlist engine for promotion.
type FreedSlot struct {
	DoctorID     uuid.UUID
	DepartmentID *uuid.UUID
	Date         time.Time
	Time         string
}

// Time-of-day buckets used by waitlist preferences
const (
	TimeSlotMorning   = "morning"
	TimeSlotAfternoon = "afternoon"
	TimeSlotEvening   = "evening"
)

// TimeSlotBucket maps a "HH:MM" clock time to its time-of-day bucket:
// morning before 12:00, afternoon 12:00 to 16:59, evening from 17:00.
func TimeSlotBucket(clock string) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return ""
	}
	switch {
	case t.Hour() < 12:
		return TimeSlotMorning
	case t.Hour() < 17:
		return TimeSlotAfternoon
	default:
		return TimeSlotEvening
	}
}

// ValidTimeSlot reports whether s is a known time-of-day bucket name.
func ValidTimeSlot(s string) bool {
	return s == TimeSlotMorning || s == TimeSlotAfternoon || s == TimeSlotEvening
}
