package converter

import (
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/domain/entity"
)

// WaitlistEntryToResponse converts a WaitlistEntry entity to its response DTO
func WaitlistEntryToResponse(entry *entity.WaitlistEntry) *dto.WaitlistEntryResponse {
	if entry == nil {
		return nil
	}

	response := &dto.WaitlistEntryResponse{
		ID:                 entry.ID,
		PatientID:          entry.PatientID,
		DoctorID:           entry.DoctorID,
		DepartmentID:       entry.DepartmentID,
		PreferredDateStart: entry.PreferredDateStart.Format("2006-01-02"),
		PreferredTimeSlots: entry.PreferredTimeSlots,
		Priority:           string(entry.Priority),
		Status:             string(entry.Status),
		Reason:             entry.Reason,
		NotifiedAt:         entry.NotifiedAt,
		ExpiresAt:          entry.ExpiresAt,
		CreatedAt:          entry.CreatedAt,
	}

	if entry.PreferredDateEnd != nil {
		response.PreferredDateEnd = entry.PreferredDateEnd.Format("2006-01-02")
	}

	return response
}

// WaitlistEntriesToResponses converts a slice of WaitlistEntry entities to response DTOs
func WaitlistEntriesToResponses(entries []entity.WaitlistEntry) []dto.WaitlistEntryResponse {
	responses := make([]dto.WaitlistEntryResponse, len(entries))
	for i, entry := range entries {
		resp := WaitlistEntryToResponse(&entry)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
