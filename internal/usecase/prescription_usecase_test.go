package usecase

import (
	"context"
	"testing"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newPrescriptionUsecaseForTest(prescriptionRepo *MockPrescriptionRepository, appointmentRepo *MockAppointmentRepository) (PrescriptionUsecase, *MockAuditService) {
	audit := &MockAuditService{}
	return NewPrescriptionUsecase(testLogger(), prescriptionRepo, appointmentRepo, audit), audit
}

func TestSavePrescription_Success(t *testing.T) {
	doctorID := uuid.New()
	appointmentID := uuid.New()
	appointmentRepo := &MockAppointmentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
			return &entity.Appointment{ID: appointmentID, DoctorID: doctorID, Status: entity.AppointmentStatusScheduled}, nil
		},
	}
	prescriptionRepo := &MockPrescriptionRepository{
		SaveFunc: func(ctx context.Context, prescription *entity.Prescription) error {
			prescription.ID = uuid.New()
			return nil
		},
	}
	uc, audit := newPrescriptionUsecaseForTest(prescriptionRepo, appointmentRepo)

	prescription, err := uc.Save(context.Background(), doctorID, &dto.SavePrescriptionRequest{
		AppointmentID: appointmentID,
		Medication:    "Amoxicillin",
		Dosage:        "500mg",
	})
	assert.NoError(t, err)
	assert.Equal(t, appointmentID, prescription.AppointmentID)
	assert.Contains(t, audit.Actions, entity.AuditActionPrescriptionSave)
}

func TestSavePrescription_AppointmentNotFound(t *testing.T) {
	uc, _ := newPrescriptionUsecaseForTest(&MockPrescriptionRepository{}, &MockAppointmentRepository{})

	_, err := uc.Save(context.Background(), uuid.New(), &dto.SavePrescriptionRequest{
		AppointmentID: uuid.New(),
		Medication:    "Amoxicillin",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSavePrescription_WrongDoctor(t *testing.T) {
	appointmentRepo := &MockAppointmentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
			return &entity.Appointment{ID: id, DoctorID: uuid.New(), Status: entity.AppointmentStatusScheduled}, nil
		},
	}
	uc, _ := newPrescriptionUsecaseForTest(&MockPrescriptionRepository{}, appointmentRepo)

	_, err := uc.Save(context.Background(), uuid.New(), &dto.SavePrescriptionRequest{
		AppointmentID: uuid.New(),
		Medication:    "Amoxicillin",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotOwned)
}

func TestSavePrescription_NotScheduled(t *testing.T) {
	doctorID := uuid.New()
	appointmentRepo := &MockAppointmentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
			return &entity.Appointment{ID: id, DoctorID: doctorID, Status: entity.AppointmentStatusCancelled}, nil
		},
	}
	prescriptionRepo := &MockPrescriptionRepository{
		SaveFunc: func(ctx context.Context, prescription *entity.Prescription) error {
			return repository.ErrStatusConflict
		},
	}
	uc, _ := newPrescriptionUsecaseForTest(prescriptionRepo, appointmentRepo)

	_, err := uc.Save(context.Background(), doctorID, &dto.SavePrescriptionRequest{
		AppointmentID: uuid.New(),
		Medication:    "Amoxicillin",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetPrescriptionByAppointment_NotFound(t *testing.T) {
	uc, _ := newPrescriptionUsecaseForTest(&MockPrescriptionRepository{}, &MockAppointmentRepository{})

	_, err := uc.GetByAppointment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}
