package handler

import (
	"encoding/json"
	"net/http"

	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/usecase"
	"hospital-scheduling/pkg/response"
	"hospital-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WaitlistHandler struct {
	waitlistUsecase usecase.WaitlistUsecase
	validator       *validator.CustomValidator
}

func NewWaitlistHandler(waitlistUsecase usecase.WaitlistUsecase, validator *validator.CustomValidator) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistUsecase: waitlistUsecase,
		validator:       validator,
	}
}

// Create handles joining the waitlist
// @Summary Join the waitlist
// @Description Register the authenticated patient on the waitlist for a preferred date range
// @Tags Waitlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateWaitlistRequest true "Create Waitlist Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.waitlistUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPastPreferredDate, usecase.ErrInvalidDateRange, usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to join waitlist")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Waitlist entry created successfully", entry)
}

// GetActive handles listing the active waitlist queue
// @Summary Get active waitlist
// @Description Get all waiting and notified entries in promotion order
// @Tags Waitlist
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /waitlist [get]
func (h *WaitlistHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlistUsecase.GetActiveQueue(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get waitlist")
		return
	}

	response.Success(w, http.StatusOK, "Waitlist retrieved successfully", entries)
}

// GetStats handles waitlist statistics
// @Summary Get waitlist stats
// @Description Get entry counts grouped by status and by priority
// @Tags Waitlist
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /waitlist/stats [get]
func (h *WaitlistHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.waitlistUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get waitlist stats")
		return
	}

	response.Success(w, http.StatusOK, "Waitlist stats retrieved successfully", stats)
}

// Notify handles manually notifying a waiting entry
// @Summary Notify a waitlist entry
// @Description Send a slot notification to a waiting patient and start the response window
// @Tags Waitlist
// @Security BearerAuth
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /waitlist/{id}/notify [post]
func (h *WaitlistHandler) Notify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.waitlistUsecase.Notify(r.Context(), id)
	if err != nil {
		h.writeTransitionError(w, err, "Failed to notify waitlist entry")
		return
	}

	response.Success(w, http.StatusOK, "Waitlist entry notified successfully", entry)
}

// Book handles marking a notified entry as booked
// @Summary Book a waitlist entry
// @Description Mark a notified entry as booked after the patient accepted the slot
// @Tags Waitlist
// @Security BearerAuth
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /waitlist/{id}/book [post]
func (h *WaitlistHandler) Book(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	if err := h.waitlistUsecase.Book(r.Context(), id); err != nil {
		h.writeTransitionError(w, err, "Failed to book waitlist entry")
		return
	}

	response.Success(w, http.StatusOK, "Waitlist entry booked successfully", nil)
}

// Cancel handles cancelling a waitlist entry
// @Summary Cancel a waitlist entry
// @Description Remove an entry from the queue, allowed from waiting or notified
// @Tags Waitlist
// @Security BearerAuth
// @Produce json
// @Param id path string true "Waitlist Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /waitlist/{id}/cancel [post]
func (h *WaitlistHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	if err := h.waitlistUsecase.Cancel(r.Context(), id); err != nil {
		h.writeTransitionError(w, err, "Failed to cancel waitlist entry")
		return
	}

	response.Success(w, http.StatusOK, "Waitlist entry cancelled successfully", nil)
}

func (h *WaitlistHandler) entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid waitlist entry ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *WaitlistHandler) writeTransitionError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrWaitlistNotFound:
		response.NotFound(w, "Waitlist entry not found")
	case usecase.ErrWaitlistNotOwned:
		response.Forbidden(w, "Waitlist entry does not belong to you")
	case usecase.ErrInvalidStateTransition:
		response.Conflict(w, "Invalid waitlist state transition")
	default:
		response.InternalServerError(w, fallback)
	}
}
