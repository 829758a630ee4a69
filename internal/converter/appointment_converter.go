package converter

import (
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		DepartmentID:    appointment.DepartmentID,
		Date:            appointment.Date.Format("2006-01-02"),
		Time:            appointment.Time,
		DurationMinutes: appointment.DurationMinutes,
		Type:            appointment.Type,
		Status:          string(appointment.Status),
		IsEmergency:     appointment.IsEmergency,
		Fee:             appointment.Fee,
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to response DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// SlotCandidatesToResponses converts derived slot candidates to response DTOs
func SlotCandidatesToResponses(slots []entity.SlotCandidate) []dto.SlotCandidateResponse {
	responses := make([]dto.SlotCandidateResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.SlotCandidateResponse{
			Time:      slot.Time,
			Available: slot.Available,
			Reason:    string(slot.Reason),
		}
	}
	return responses
}
