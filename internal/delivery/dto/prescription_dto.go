package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SavePrescriptionRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Medication    string    `json:"medication" validate:"required,max=255"`
	Dosage        string    `json:"dosage" validate:"max=100"`
	Notes         string    `json:"notes"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Medication    string    `json:"medication"`
	Dosage        string    `json:"dosage,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
