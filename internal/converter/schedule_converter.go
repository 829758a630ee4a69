package converter

import (
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/domain/entity"
)

// WeeklyScheduleToResponse converts a WeeklySchedule entity to its response DTO
func WeeklyScheduleToResponse(schedule *entity.WeeklySchedule) *dto.WeeklyScheduleResponse {
	if schedule == nil {
		return nil
	}

	response := &dto.WeeklyScheduleResponse{
		ID:          schedule.ID,
		StaffID:     schedule.StaffID,
		DayOfWeek:   schedule.DayOfWeek,
		StartTime:   schedule.StartTime,
		EndTime:     schedule.EndTime,
		IsAvailable: schedule.IsAvailable,
		CreatedAt:   schedule.CreatedAt,
		UpdatedAt:   schedule.UpdatedAt,
	}

	if schedule.BreakStart != nil {
		response.BreakStart = *schedule.BreakStart
	}
	if schedule.BreakEnd != nil {
		response.BreakEnd = *schedule.BreakEnd
	}

	return response
}

// WeeklySchedulesToResponses converts a slice of WeeklySchedule entities to response DTOs
func WeeklySchedulesToResponses(schedules []entity.WeeklySchedule) []dto.WeeklyScheduleResponse {
	responses := make([]dto.WeeklyScheduleResponse, len(schedules))
	for i, schedule := range schedules {
		resp := WeeklyScheduleToResponse(&schedule)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// ScheduleOverrideToResponse converts a ScheduleOverride entity to its response DTO
func ScheduleOverrideToResponse(override *entity.ScheduleOverride) *dto.ScheduleOverrideResponse {
	if override == nil {
		return nil
	}

	response := &dto.ScheduleOverrideResponse{
		ID:          override.ID,
		StaffID:     override.StaffID,
		Date:        override.Date.Format("2006-01-02"),
		StartTime:   override.StartTime,
		EndTime:     override.EndTime,
		IsAvailable: override.IsAvailable,
		Reason:      override.Reason,
		CreatedAt:   override.CreatedAt,
	}

	if override.BreakStart != nil {
		response.BreakStart = *override.BreakStart
	}
	if override.BreakEnd != nil {
		response.BreakEnd = *override.BreakEnd
	}

	return response
}

// ScheduleOverridesToResponses converts a slice of ScheduleOverride entities to response DTOs
func ScheduleOverridesToResponses(overrides []entity.ScheduleOverride) []dto.ScheduleOverrideResponse {
	responses := make([]dto.ScheduleOverrideResponse, len(overrides))
	for i, override := range overrides {
		resp := ScheduleOverrideToResponse(&override)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
