package repository

import (
	"context"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// PrescriptionRepository persists prescriptions. Save inserts the prescription
// and moves the owning appointment from scheduled to prescription_issued in
// one transaction; ErrStatusConflict is returned when the appointment is not
// in the scheduled state.
type PrescriptionRepository interface {
	Save(ctx context.Context, prescription *entity.Prescription) error
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Prescription, error)
}
