package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor represents a bookable practitioner managed by admin operations.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Specialty string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Slots        []AvailabilitySlot `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
	Appointments []Appointment      `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// TemplateFor returns the ordered slot starts declared for the given weekday.
func (d *Doctor) TemplateFor(weekday time.Weekday) []string {
	starts := make([]string, 0, len(d.Slots))
	for _, slot := range d.Slots {
		if slot.Weekday == int(weekday) {
			starts = append(starts, slot.StartTime)
		}
	}
	return starts
}
