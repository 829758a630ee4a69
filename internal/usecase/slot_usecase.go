package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-scheduling/internal/domain/entity"
	"hospital-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

// SlotResolverUsecase computes the bookable slots for a doctor on a date.
// Read-only and side-effect-free: safe to call concurrently, never caches
// booking state across calls.
type SlotResolverUsecase interface {
	Resolve(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.SlotCandidate, error)
}

type slotResolverUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	weeklyRepo      repository.WeeklyScheduleRepository
	overrideRepo    repository.ScheduleOverrideRepository
	appointmentRepo repository.AppointmentRepository
	slotDuration    int // minutes
}

func NewSlotResolverUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	weeklyRepo repository.WeeklyScheduleRepository,
	overrideRepo repository.ScheduleOverrideRepository,
	appointmentRepo repository.AppointmentRepository,
	slotDurationMinutes int,
) SlotResolverUsecase {
	return &slotResolverUsecase{
		db:              db,
		log:             log,
		weeklyRepo:      weeklyRepo,
		overrideRepo:    overrideRepo,
		appointmentRepo: appointmentRepo,
		slotDuration:    slotDurationMinutes,
	}
}

// dayWindow is the effective working window for one doctor-day after
// merging the weekly schedule with any per-day override.
type dayWindow struct {
	startMin, endMin int
	breakStart       int // -1 when no break
	breakEnd         int
}

// Resolve merges the weekly schedule, per-day override, and existing
// bookings into an ordered candidate list. A missing or unavailable
// schedule yields the single NoScheduleConfigured sentinel so callers can
// tell an administrative gap from a fully booked day.
func (u *slotResolverUsecase) Resolve(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.SlotCandidate, error) {
	window, err := u.effectiveWindow(doctorID, date)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return []entity.SlotCandidate{{
			Available: false,
			Reason:    entity.SlotReasonNoSchedule,
		}}, nil
	}

	booked, err := u.bookedTimes(doctorID, date)
	if err != nil {
		return nil, err
	}

	var slots []entity.SlotCandidate
	for t := window.startMin; t+u.slotDuration <= window.endMin; t += u.slotDuration {
		candidate := entity.SlotCandidate{
			Time:      formatClock(t),
			Available: true,
			Reason:    entity.SlotReasonNone,
		}

		switch {
		case window.breakStart >= 0 && t >= window.breakStart && t < window.breakEnd:
			// Break slots stay visible but non-selectable so the full
			// schedule view is preserved.
			candidate.Available = false
			candidate.Reason = entity.SlotReasonBreak
		case booked[candidate.Time]:
			candidate.Available = false
			candidate.Reason = entity.SlotReasonAlreadyBooked
		}

		slots = append(slots, candidate)
	}

	return slots, nil
}

// effectiveWindow returns nil (without error) when no schedule is
// configured or the day is marked unavailable.
func (u *slotResolverUsecase) effectiveWindow(doctorID uuid.UUID, date time.Time) (*dayWindow, error) {
	override, err := u.overrideRepo.FindByStaffAndDate(u.db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find schedule override for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if override != nil {
		if !override.IsAvailable {
			return nil, nil
		}
		return buildWindow(override.StartTime, override.EndTime, override.BreakStart, override.BreakEnd)
	}

	weekly, err := u.weeklyRepo.FindByStaffAndDay(u.db, doctorID, int(date.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find weekly schedule for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if weekly == nil || !weekly.IsAvailable {
		return nil, nil
	}

	return buildWindow(weekly.StartTime, weekly.EndTime, weekly.BreakStart, weekly.BreakEnd)
}

func (u *slotResolverUsecase) bookedTimes(doctorID uuid.UUID, date time.Time) (map[string]bool, error) {
	appointments, err := u.appointmentRepo.FindByDoctorAndDate(u.db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	booked := make(map[string]bool, len(appointments))
	for _, appointment := range appointments {
		booked[appointment.Time] = true
	}
	return booked, nil
}

func buildWindow(startTime, endTime string, breakStart, breakEnd *string) (*dayWindow, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return nil, fmt.Errorf("parse schedule start %q: %w", startTime, err)
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, fmt.Errorf("parse schedule end %q: %w", endTime, err)
	}

	window := &dayWindow{startMin: start, endMin: end, breakStart: -1, breakEnd: -1}

	if breakStart != nil && breakEnd != nil {
		bs, err := parseClock(*breakStart)
		if err != nil {
			return nil, fmt.Errorf("parse break start %q: %w", *breakStart, err)
		}
		be, err := parseClock(*breakEnd)
		if err != nil {
			return nil, fmt.Errorf("parse break end %q: %w", *breakEnd, err)
		}
		window.breakStart = bs
		window.breakEnd = be
	}

	return window, nil
}

// parseClock accepts "HH:MM" and "HH:MM:SS" and returns minutes from midnight.
func parseClock(clock string) (int, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
		if err != nil {
			return 0, ErrInvalidTimeFormat
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
