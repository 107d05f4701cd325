package repository

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) domainRepo.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

// Save inserts the prescription and moves the owning appointment from
// scheduled to prescription_issued; both happen in one transaction so a
// prescription never exists without the matching status transition.
func (r *prescriptionRepository) Save(ctx context.Context, prescription *entity.Prescription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Appointment{}).
			Where("id = ? AND status = ?", prescription.AppointmentID, entity.AppointmentStatusScheduled).
			Update("status", entity.AppointmentStatusPrescriptionIssued)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrStatusConflict
		}
		return tx.Create(prescription).Error
	})
}

func (r *prescriptionRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}
