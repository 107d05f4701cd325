package usecase

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"
	"clinic-appointment-service/pkg/token"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPatientExists    = errors.New("email or phone already registered")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrInvalidCondition = errors.New("condition must be past or future")
)

// Appointment history conditions. "past" selects appointments that have
// progressed beyond scheduled, "future" selects those still scheduled.
const (
	ConditionPast   = "past"
	ConditionFuture = "future"
)

type PatientUsecase interface {
	Register(ctx context.Context, request *dto.RegisterPatientRequest) (*entity.Patient, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, subject, tokenID string) error
	GetProfile(ctx context.Context, patientID uuid.UUID) (*entity.Patient, error)
	FilterAppointments(ctx context.Context, patientID uuid.UUID, condition, doctorName string) ([]entity.Appointment, error)
}

type patientUsecase struct {
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	authority       *token.Authority
	sessions        service.SessionStore
}

func NewPatientUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	authority *token.Authority,
	sessions service.SessionStore,
) PatientUsecase {
	return &patientUsecase{
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		authority:       authority,
		sessions:        sessions,
	}
}

func (u *patientUsecase) Register(ctx context.Context, request *dto.RegisterPatientRequest) (*entity.Patient, error) {
	existing, err := u.patientRepo.FindByEmailOrPhone(ctx, request.Email, request.Phone)
	if err != nil {
		u.log.Warnf("Failed to check existing patient: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPatientExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash patient password: %+v", err)
		return nil, err
	}

	patient := &entity.Patient{
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
		Password: string(hashed),
	}

	if err := u.patientRepo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrPatientExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	return patient, nil
}

func (u *patientUsecase) Login(ctx context.Context, request *dto.LoginRequest) (*dto.TokenResponse, error) {
	patient, err := u.patientRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		u.log.Warnf("Failed to find patient by email: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, tokenID, err := u.authority.Issue(patient.ID.String(), entity.RolePatient)
	if err != nil {
		u.log.Warnf("Failed to issue patient token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, patient.ID.String(), tokenID, u.authority.Expiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(u.authority.Expiry().Seconds()),
	}, nil
}

func (u *patientUsecase) Logout(ctx context.Context, subject, tokenID string) error {
	return u.sessions.Revoke(ctx, subject, tokenID)
}

func (u *patientUsecase) GetProfile(ctx context.Context, patientID uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

// FilterAppointments lists the patient's own appointments, optionally
// narrowed by condition and exact doctor name. Condition "past" maps to the
// prescription_issued and completed states, "future" to scheduled; any other
// non-empty value is rejected.
func (u *patientUsecase) FilterAppointments(ctx context.Context, patientID uuid.UUID, condition, doctorName string) ([]entity.Appointment, error) {
	statuses, err := statusesForCondition(condition)
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment

	switch {
	case len(statuses) > 0 && doctorName != "":
		appointments, err = u.appointmentRepo.FindByPatientDoctorNameAndStatuses(ctx, patientID, doctorName, statuses)
	case len(statuses) > 0:
		appointments, err = u.appointmentRepo.FindByPatientAndStatuses(ctx, patientID, statuses)
	case doctorName != "":
		appointments, err = u.appointmentRepo.FindByPatientAndDoctorName(ctx, patientID, doctorName)
	default:
		appointments, err = u.appointmentRepo.FindByPatient(ctx, patientID)
	}

	if err != nil {
		u.log.Warnf("Failed to filter appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return appointments, nil
}

func statusesForCondition(condition string) ([]entity.AppointmentStatus, error) {
	switch condition {
	case "":
		return nil, nil
	case ConditionPast:
		return []entity.AppointmentStatus{
			entity.AppointmentStatusPrescriptionIssued,
			entity.AppointmentStatusCompleted,
		}, nil
	case ConditionFuture:
		return []entity.AppointmentStatus{entity.AppointmentStatusScheduled}, nil
	default:
		return nil, ErrInvalidCondition
	}
}
