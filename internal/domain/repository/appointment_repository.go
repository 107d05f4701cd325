package repository

import (
	"context"
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository persists appointments.
//
// Book and Reschedule are atomic reserve-or-fail operations: both re-check the
// absence of a conflicting non-cancelled appointment inside one transaction and
// return ErrSlotConflict when the slot is held. UpdateStatusIf performs a
// state-conditional update and returns ErrStatusConflict when the appointment
// is not in one of the permitted source states.
type AppointmentRepository interface {
	Book(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	FindForDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time, patientName string) ([]entity.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) error
	UpdateStatusIf(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus, from []entity.AppointmentStatus) error

	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByPatientAndStatuses(ctx context.Context, patientID uuid.UUID, statuses []entity.AppointmentStatus) ([]entity.Appointment, error)
	FindByPatientAndDoctorName(ctx context.Context, patientID uuid.UUID, doctorName string) ([]entity.Appointment, error)
	FindByPatientDoctorNameAndStatuses(ctx context.Context, patientID uuid.UUID, doctorName string, statuses []entity.AppointmentStatus) ([]entity.Appointment, error)
}
