package entity

import (
	"github.com/google/uuid"
)

// AvailabilitySlot is one declared slot-start in a doctor's weekly
// availability template. StartTime uses the "15:04" wall-clock format.
type AvailabilitySlot struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Weekday   int       `gorm:"not null" json:"weekday"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}
