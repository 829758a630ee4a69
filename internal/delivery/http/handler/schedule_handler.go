package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/usecase"
	"hospital-scheduling/pkg/response"
	"hospital-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleAdminUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleAdminUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

// CreateWeekly handles creating a weekly schedule row
// @Summary Create weekly schedule
// @Description Define a doctor's recurring working hours for one day of the week
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateWeeklyScheduleRequest true "Create Weekly Schedule Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /schedules/weekly [post]
func (h *ScheduleHandler) CreateWeekly(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWeeklyScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateWeekly(r.Context(), &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to create weekly schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Weekly schedule created successfully", schedule)
}

// UpdateWeekly handles updating a weekly schedule row
// @Summary Update weekly schedule
// @Description Update working hours, breaks or availability of a weekly schedule
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body dto.UpdateWeeklyScheduleRequest true "Update Weekly Schedule Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schedules/weekly/{id} [put]
func (h *ScheduleHandler) UpdateWeekly(w http.ResponseWriter, r *http.Request) {
	id, ok := h.numericID(w, r, "Invalid schedule ID")
	if !ok {
		return
	}

	var req dto.UpdateWeeklyScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateWeekly(r.Context(), id, &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to update weekly schedule")
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedule updated successfully", schedule)
}

// DeleteWeekly handles deleting a weekly schedule row
// @Summary Delete weekly schedule
// @Description Remove a doctor's recurring schedule for one day of the week
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schedules/weekly/{id} [delete]
func (h *ScheduleHandler) DeleteWeekly(w http.ResponseWriter, r *http.Request) {
	id, ok := h.numericID(w, r, "Invalid schedule ID")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteWeekly(r.Context(), id); err != nil {
		h.writeScheduleError(w, err, "Failed to delete weekly schedule")
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedule deleted successfully", nil)
}

// GetWeeklyByStaff handles listing a doctor's weekly schedule
// @Summary Get weekly schedule
// @Description Get all weekly schedule rows of one doctor
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param staffId path string true "Staff ID"
// @Success 200 {object} response.Response
// @Router /schedules/weekly/staff/{staffId} [get]
func (h *ScheduleHandler) GetWeeklyByStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := uuid.Parse(mux.Vars(r)["staffId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	schedules, err := h.scheduleUsecase.GetWeeklyByStaff(r.Context(), staffID)
	if err != nil {
		response.InternalServerError(w, "Failed to get weekly schedules")
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedules retrieved successfully", schedules)
}

// CreateOverride handles creating a per-day override
// @Summary Create schedule override
// @Description Override a doctor's schedule for one specific date
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateScheduleOverrideRequest true "Create Schedule Override Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /schedules/overrides [post]
func (h *ScheduleHandler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	override, err := h.scheduleUsecase.CreateOverride(r.Context(), &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to create schedule override")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule override created successfully", override)
}

// DeleteOverride handles deleting a per-day override
// @Summary Delete schedule override
// @Description Remove a one-day schedule override
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param id path int true "Override ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schedules/overrides/{id} [delete]
func (h *ScheduleHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := h.numericID(w, r, "Invalid override ID")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteOverride(r.Context(), id); err != nil {
		h.writeScheduleError(w, err, "Failed to delete schedule override")
		return
	}

	response.Success(w, http.StatusOK, "Schedule override deleted successfully", nil)
}

// GetOverridesByStaff handles listing a doctor's overrides
// @Summary Get schedule overrides
// @Description Get all one-day overrides of one doctor
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param staffId path string true "Staff ID"
// @Success 200 {object} response.Response
// @Router /schedules/overrides/staff/{staffId} [get]
func (h *ScheduleHandler) GetOverridesByStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := uuid.Parse(mux.Vars(r)["staffId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	overrides, err := h.scheduleUsecase.GetOverridesByStaff(r.Context(), staffID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedule overrides")
		return
	}

	response.Success(w, http.StatusOK, "Schedule overrides retrieved successfully", overrides)
}

func (h *ScheduleHandler) numericID(w http.ResponseWriter, r *http.Request, message string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}

func (h *ScheduleHandler) writeScheduleError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrScheduleNotFound:
		response.NotFound(w, "Weekly schedule not found")
	case usecase.ErrOverrideNotFound:
		response.NotFound(w, "Schedule override not found")
	case usecase.ErrInvalidWindow, usecase.ErrInvalidBreak, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidDateFormat:
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
