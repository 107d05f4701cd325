package usecase

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrPrescriptionNotFound = errors.New("prescription not found")

type PrescriptionUsecase interface {
	Save(ctx context.Context, doctorID uuid.UUID, request *dto.SavePrescriptionRequest) (*entity.Prescription, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.Prescription, error)
}

type prescriptionUsecase struct {
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	audit            service.AuditService
}

func NewPrescriptionUsecase(
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	audit service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		log:              log,
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		audit:            audit,
	}
}

// Save records a prescription for a scheduled appointment owned by the
// doctor and moves the appointment to prescription_issued. Both writes
// happen in one transaction; ErrInvalidTransition is returned when the
// appointment has already left the scheduled state.
func (u *prescriptionUsecase) Save(ctx context.Context, doctorID uuid.UUID, request *dto.SavePrescriptionRequest) (*entity.Prescription, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, request.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", request.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrAppointmentNotOwned
	}

	prescription := &entity.Prescription{
		AppointmentID: request.AppointmentID,
		Medication:    request.Medication,
		Dosage:        request.Dosage,
		Notes:         request.Notes,
	}

	if err := u.prescriptionRepo.Save(ctx, prescription); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		u.log.Warnf("Failed to save prescription for appointment %s: %+v", request.AppointmentID, err)
		return nil, err
	}

	u.audit.Record(ctx, &doctorID, entity.AuditActionPrescriptionSave, "prescription", prescription.ID.String(), map[string]interface{}{
		"appointment_id": request.AppointmentID.String(),
	})

	return prescription, nil
}

func (u *prescriptionUsecase) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.Prescription, error) {
	prescription, err := u.prescriptionRepo.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find prescription for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	return prescription, nil
}
