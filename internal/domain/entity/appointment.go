package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled          AppointmentStatus = "scheduled"
	AppointmentStatusPrescriptionIssued AppointmentStatus = "prescription_issued"
	AppointmentStatusCompleted          AppointmentStatus = "completed"
	AppointmentStatusCancelled          AppointmentStatus = "cancelled"
)

// Appointment represents a booked slot for a doctor and patient. At most one
// non-cancelled appointment may exist per (doctor_id, appointment_time); the
// store enforces this with a partial unique index.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentTime time.Time         `gorm:"not null;index" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:varchar(30);not null;default:'scheduled';index" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor       Doctor        `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient      Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Prescription *Prescription `gorm:"foreignKey:AppointmentID" json:"prescription,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsTerminal reports whether no further transitions are permitted.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// IsCancelled checks if the appointment is cancelled.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// CanCancel reports whether a patient-initiated cancellation is allowed.
func (a *Appointment) CanCancel() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusPrescriptionIssued
}

// CanReschedule reports whether the appointment time may still be changed.
func (a *Appointment) CanReschedule() bool {
	return a.Status == AppointmentStatusScheduled
}

// CancellableStatuses are the states a cancellation may start from.
func CancellableStatuses() []AppointmentStatus {
	return []AppointmentStatus{AppointmentStatusScheduled, AppointmentStatusPrescriptionIssued}
}
