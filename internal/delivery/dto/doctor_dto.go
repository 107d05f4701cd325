package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SlotRequest struct {
	Weekday   int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
}

type CreateDoctorRequest struct {
	Name      string        `json:"name" validate:"required,max=255"`
	Specialty string        `json:"specialty" validate:"required,max=100"`
	Email     string        `json:"email" validate:"required,email"`
	Password  string        `json:"password" validate:"required,min=8"`
	Slots     []SlotRequest `json:"slots" validate:"dive"`
}

type UpdateDoctorRequest struct {
	Name      string        `json:"name" validate:"required,max=255"`
	Specialty string        `json:"specialty" validate:"required,max=100"`
	Email     string        `json:"email" validate:"required,email"`
	Slots     []SlotRequest `json:"slots" validate:"dive"`
}

// Response DTOs

type SlotResponse struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
}

type DoctorResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Specialty string         `json:"specialty"`
	Email     string         `json:"email"`
	Slots     []SlotResponse `json:"slots,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
