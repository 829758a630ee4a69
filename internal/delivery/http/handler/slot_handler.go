package handler

import (
	"net/http"
	"time"

	"hospital-scheduling/internal/converter"
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/usecase"
	"hospital-scheduling/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SlotHandler struct {
	slotUsecase usecase.SlotResolverUsecase
}

func NewSlotHandler(slotUsecase usecase.SlotResolverUsecase) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
	}
}

// GetByDoctorAndDate handles listing a doctor's slots for a day
// @Summary Get doctor slots
// @Description Get every 30-minute slot of a doctor for a given date, available or not
// @Tags Slots
// @Security BearerAuth
// @Produce json
// @Param doctorId path string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/{doctorId}/slots [get]
func (h *SlotHandler) GetByDoctorAndDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	dateParam := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
		return
	}

	slots, err := h.slotUsecase.Resolve(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to resolve slots")
		}
		return
	}

	result := &dto.SlotListResponse{
		DoctorID: doctorID,
		Date:     date.Format("2006-01-02"),
		Slots:    converter.SlotCandidatesToResponses(slots),
		Total:    len(slots),
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", result)
}
