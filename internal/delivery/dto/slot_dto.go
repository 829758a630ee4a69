package dto

import (
	"github.com/google/uuid"
)

// Response DTOs

type SlotCandidateResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type SlotListResponse struct {
	DoctorID uuid.UUID               `json:"doctor_id"`
	Date     string                  `json:"date"`
	Slots    []SlotCandidateResponse `json:"slots"`
	Total    int                     `json:"total"`
}
