package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"hospital-scheduling/internal/converter"
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/delivery/http/middleware"
	"hospital-scheduling/internal/domain/entity"
	"hospital-scheduling/internal/domain/repository"
	"hospital-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrOverrideNotFound = errors.New("schedule override not found")
	ErrInvalidWindow    = errors.New("schedule end time must be after start time")
	ErrInvalidBreak     = errors.New("break window must fall inside working hours")
)

// ScheduleAdminUsecase manages the weekly schedules and per-day overrides
// that the slot resolver reads.
type ScheduleAdminUsecase interface {
	CreateWeekly(ctx context.Context, req *dto.CreateWeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error)
	UpdateWeekly(ctx context.Context, scheduleID int, req *dto.UpdateWeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error)
	DeleteWeekly(ctx context.Context, scheduleID int) error
	GetWeeklyByStaff(ctx context.Context, staffID uuid.UUID) (*dto.WeeklyScheduleListResponse, error)

	CreateOverride(ctx context.Context, req *dto.CreateScheduleOverrideRequest) (*dto.ScheduleOverrideResponse, error)
	DeleteOverride(ctx context.Context, overrideID int) error
	GetOverridesByStaff(ctx context.Context, staffID uuid.UUID) (*dto.ScheduleOverrideListResponse, error)
}

type scheduleAdminUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	weeklyRepo   repository.WeeklyScheduleRepository
	overrideRepo repository.ScheduleOverrideRepository
	auditService service.AuditService
}

func NewScheduleAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	weeklyRepo repository.WeeklyScheduleRepository,
	overrideRepo repository.ScheduleOverrideRepository,
	auditService service.AuditService,
) ScheduleAdminUsecase {
	return &scheduleAdminUsecase{
		db:           db,
		log:          log,
		weeklyRepo:   weeklyRepo,
		overrideRepo: overrideRepo,
		auditService: auditService,
	}
}

func (u *scheduleAdminUsecase) CreateWeekly(ctx context.Context, req *dto.CreateWeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error) {
	breakStart, breakEnd, err := validateWindow(req.StartTime, req.EndTime, req.BreakStart, req.BreakEnd)
	if err != nil {
		return nil, err
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	schedule := &entity.WeeklySchedule{
		StaffID:     req.StaffID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BreakStart:  breakStart,
		BreakEnd:    breakEnd,
		IsAvailable: isAvailable,
	}

	if err := u.weeklyRepo.Create(u.db.WithContext(ctx), schedule); err != nil {
		u.log.Warnf("Failed to create weekly schedule: %+v", err)
		return nil, err
	}

	u.audit(ctx, entity.AuditActionScheduleCreate, "weekly_schedule", schedule.ID, schedule)
	return converter.WeeklyScheduleToResponse(schedule), nil
}

func (u *scheduleAdminUsecase) UpdateWeekly(ctx context.Context, scheduleID int, req *dto.UpdateWeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error) {
	schedule, err := u.weeklyRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find weekly schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	startTime := schedule.StartTime
	endTime := schedule.EndTime
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	if req.EndTime != "" {
		endTime = req.EndTime
	}

	breakStartStr := ""
	breakEndStr := ""
	if req.BreakStart != "" || req.BreakEnd != "" {
		breakStartStr = req.BreakStart
		breakEndStr = req.BreakEnd
	} else {
		if schedule.BreakStart != nil {
			breakStartStr = *schedule.BreakStart
		}
		if schedule.BreakEnd != nil {
			breakEndStr = *schedule.BreakEnd
		}
	}

	breakStart, breakEnd, err := validateWindow(startTime, endTime, breakStartStr, breakEndStr)
	if err != nil {
		return nil, err
	}

	schedule.StartTime = startTime
	schedule.EndTime = endTime
	schedule.BreakStart = breakStart
	schedule.BreakEnd = breakEnd
	if req.IsAvailable != nil {
		schedule.IsAvailable = *req.IsAvailable
	}

	if err := u.weeklyRepo.Update(u.db.WithContext(ctx), schedule); err != nil {
		u.log.Warnf("Failed to update weekly schedule %d: %+v", scheduleID, err)
		return nil, err
	}

	u.audit(ctx, entity.AuditActionScheduleUpdate, "weekly_schedule", schedule.ID, schedule)
	return converter.WeeklyScheduleToResponse(schedule), nil
}

func (u *scheduleAdminUsecase) DeleteWeekly(ctx context.Context, scheduleID int) error {
	affected, err := u.weeklyRepo.Delete(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to delete weekly schedule %d: %+v", scheduleID, err)
		return err
	}
	if affected == 0 {
		return ErrScheduleNotFound
	}

	u.audit(ctx, entity.AuditActionScheduleDelete, "weekly_schedule", scheduleID, nil)
	return nil
}

func (u *scheduleAdminUsecase) GetWeeklyByStaff(ctx context.Context, staffID uuid.UUID) (*dto.WeeklyScheduleListResponse, error) {
	schedules, err := u.weeklyRepo.FindByStaffID(u.db.WithContext(ctx), staffID)
	if err != nil {
		u.log.Warnf("Failed to find weekly schedules for staff %s: %+v", staffID, err)
		return nil, err
	}

	return &dto.WeeklyScheduleListResponse{
		Schedules: converter.WeeklySchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

func (u *scheduleAdminUsecase) CreateOverride(ctx context.Context, req *dto.CreateScheduleOverrideRequest) (*dto.ScheduleOverrideResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	var breakStart, breakEnd *string
	if isAvailable {
		// Day-off overrides carry no working window.
		breakStart, breakEnd, err = validateWindow(req.StartTime, req.EndTime, req.BreakStart, req.BreakEnd)
		if err != nil {
			return nil, err
		}
	}

	override := &entity.ScheduleOverride{
		StaffID:     req.StaffID,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BreakStart:  breakStart,
		BreakEnd:    breakEnd,
		IsAvailable: isAvailable,
		Reason:      req.Reason,
	}

	if err := u.overrideRepo.Create(u.db.WithContext(ctx), override); err != nil {
		u.log.Warnf("Failed to create schedule override: %+v", err)
		return nil, err
	}

	u.audit(ctx, entity.AuditActionOverrideCreate, "schedule_override", override.ID, override)
	return converter.ScheduleOverrideToResponse(override), nil
}

func (u *scheduleAdminUsecase) DeleteOverride(ctx context.Context, overrideID int) error {
	affected, err := u.overrideRepo.Delete(u.db.WithContext(ctx), overrideID)
	if err != nil {
		u.log.Warnf("Failed to delete schedule override %d: %+v", overrideID, err)
		return err
	}
	if affected == 0 {
		return ErrOverrideNotFound
	}

	u.audit(ctx, entity.AuditActionOverrideDelete, "schedule_override", overrideID, nil)
	return nil
}

func (u *scheduleAdminUsecase) GetOverridesByStaff(ctx context.Context, staffID uuid.UUID) (*dto.ScheduleOverrideListResponse, error) {
	overrides, err := u.overrideRepo.FindByStaffID(u.db.WithContext(ctx), staffID)
	if err != nil {
		u.log.Warnf("Failed to find schedule overrides for staff %s: %+v", staffID, err)
		return nil, err
	}

	return &dto.ScheduleOverrideListResponse{
		Overrides: converter.ScheduleOverridesToResponses(overrides),
		Total:     len(overrides),
	}, nil
}

func (u *scheduleAdminUsecase) audit(ctx context.Context, action, entityName string, entityID int, value interface{}) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	var userRef *uuid.UUID
	if ok {
		userRef = &userID
	}

	var err error
	if value != nil {
		err = u.auditService.LogCreate(ctx, u.db.WithContext(ctx), userRef, action, entityName, strconv.Itoa(entityID), value)
	} else {
		err = u.auditService.LogDelete(ctx, u.db.WithContext(ctx), userRef, action, entityName, strconv.Itoa(entityID), nil)
	}
	if err != nil {
		u.log.Warnf("Failed to audit %s for %s %d: %+v", action, entityName, entityID, err)
	}
}

// validateWindow checks start < end and, when both break bounds are given,
// that the break sits inside the working window. Returns normalized break
// pointers (nil when no break configured).
func validateWindow(startTime, endTime, breakStart, breakEnd string) (*string, *string, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return nil, nil, ErrInvalidTimeFormat
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, nil, ErrInvalidTimeFormat
	}
	if end <= start {
		return nil, nil, ErrInvalidWindow
	}

	if breakStart == "" && breakEnd == "" {
		return nil, nil, nil
	}
	if breakStart == "" || breakEnd == "" {
		return nil, nil, ErrInvalidBreak
	}

	bs, err := parseClock(breakStart)
	if err != nil {
		return nil, nil, ErrInvalidTimeFormat
	}
	be, err := parseClock(breakEnd)
	if err != nil {
		return nil, nil, ErrInvalidTimeFormat
	}
	if bs >= be || bs < start || be > end {
		return nil, nil, ErrInvalidBreak
	}

	return &breakStart, &breakEnd, nil
}
