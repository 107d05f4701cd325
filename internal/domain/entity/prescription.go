package entity

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is attached by a doctor to an appointment. Saving one moves
// the appointment from scheduled to prescription_issued within the same
// transaction.
type Prescription struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	Medication    string    `gorm:"type:varchar(255);not null" json:"medication"`
	Dosage        string    `gorm:"type:varchar(100)" json:"dosage"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
