package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WaitlistPriority ranks waiting patients; urgent outranks everything.
type WaitlistPriority string

const (
	WaitlistPriorityUrgent WaitlistPriority = "urgent"
	WaitlistPriorityHigh   WaitlistPriority = "high"
	WaitlistPriorityNormal WaitlistPriority = "normal"
	WaitlistPriorityLow    WaitlistPriority = "low"
)

// Rank returns the sort key for a priority; lower wins. Unknown values
// sort last.
func (p WaitlistPriority) Rank() int {
	switch p {
	case WaitlistPriorityUrgent:
		return 0
	case WaitlistPriorityHigh:
		return 1
	case WaitlistPriorityNormal:
		return 2
	case WaitlistPriorityLow:
		return 3
	}
	return 4
}

// ValidWaitlistPriority reports whether p is a known priority value.
func ValidWaitlistPriority(p WaitlistPriority) bool {
	return p.Rank() < 4
}

// WaitlistStatus represents the state machine of a waitlist entry
type WaitlistStatus string

const (
	WaitlistStatusWaiting   WaitlistStatus = "waiting"
	WaitlistStatusNotified  WaitlistStatus = "notified"
	WaitlistStatusBooked    WaitlistStatus = "booked"
	WaitlistStatusCancelled WaitlistStatus = "cancelled"
	WaitlistStatusExpired   WaitlistStatus = "expired"
)

var waitlistTransitions = map[WaitlistStatus][]WaitlistStatus{
	WaitlistStatusWaiting:  {WaitlistStatusNotified, WaitlistStatusCancelled},
	WaitlistStatusNotified: {WaitlistStatusBooked, WaitlistStatusCancelled, WaitlistStatusExpired},
}

// IsActive reports whether the status counts toward the active queue.
func (s WaitlistStatus) IsActive() bool {
	return s == WaitlistStatusWaiting || s == WaitlistStatusNotified
}

// IsTerminal reports whether the status accepts no further transitions.
func (s WaitlistStatus) IsTerminal() bool {
	return len(waitlistTransitions[s]) == 0
}

// StringArray is a jsonb-backed string slice for GORM
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal jsonb array value:", value))
	}
	return json.Unmarshal(bytes, a)
}

// WaitlistEntry represents a patient waiting for a slot to free up.
// DoctorID and DepartmentID are soft filters: an entry with neither
// matches any opening, one with only DepartmentID matches any doctor
// in that department.
type WaitlistEntry struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID           *uuid.UUID       `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	DepartmentID       *uuid.UUID       `gorm:"type:uuid;index" json:"department_id,omitempty"`
	PreferredDateStart time.Time        `gorm:"type:date;not null" json:"preferred_date_start"`
	PreferredDateEnd   *time.Time       `gorm:"type:date" json:"preferred_date_end,omitempty"`
	PreferredTimeSlots StringArray      `gorm:"type:jsonb" json:"preferred_time_slots,omitempty"`
	Priority           WaitlistPriority `gorm:"type:varchar(10);not null;default:'normal';index" json:"priority"`
	Status             WaitlistStatus   `gorm:"type:varchar(10);not null;default:'waiting';index" json:"status"`
	Reason             string           `gorm:"type:text" json:"reason,omitempty"`
	NotifiedAt         *time.Time       `json:"notified_at,omitempty"`
	ExpiresAt          *time.Time       `json:"expires_at,omitempty"`
	CreatedAt          time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (e *WaitlistEntry) CanTransitionTo(next WaitlistStatus) bool {
	for _, allowed := range waitlistTransitions[e.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MatchesSlot reports whether the entry's filters accept a freed slot.
// Doctor filter wins over department filter; an entry with neither is open.
func (e *WaitlistEntry) MatchesSlot(slot FreedSlot) bool {
	if e.DoctorID != nil {
		if *e.DoctorID != slot.DoctorID {
			return false
		}
	} else if e.DepartmentID != nil {
		if slot.DepartmentID == nil || *e.DepartmentID != *slot.DepartmentID {
			return false
		}
	}

	if slot.Date.Before(e.PreferredDateStart) {
		return false
	}
	if e.PreferredDateEnd != nil && slot.Date.After(*e.PreferredDateEnd) {
		return false
	}

	return e.MatchesTimeSlot(slot.Time)
}

// MatchesTimeSlot reports whether a "HH:MM" time falls into one of the
// entry's preferred buckets. An empty preference set matches everything.
func (e *WaitlistEntry) MatchesTimeSlot(clock string) bool {
	if len(e.PreferredTimeSlots) == 0 {
		return true
	}
	bucket := TimeSlotBucket(clock)
	for _, s := range e.PreferredTimeSlots {
		if s == bucket {
			return true
		}
	}
	return false
}
