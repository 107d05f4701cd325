package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDoctorEmailTaken   = errors.New("doctor email already registered")
)

type DoctorUsecase interface {
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, subject, tokenID string) error
	CreateDoctor(ctx context.Context, adminID uuid.UUID, request *dto.CreateDoctorRequest) (*entity.Doctor, error)
	UpdateDoctor(ctx context.Context, adminID, doctorID uuid.UUID, request *dto.UpdateDoctorRequest) (*entity.Doctor, error)
	DeleteDoctor(ctx context.Context, adminID, doctorID uuid.UUID) error
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.Doctor, error)
	FilterDoctors(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error)
}

type doctorUsecase struct {
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
	authority  *token.Authority
	sessions   service.SessionStore
	audit      service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	authority *token.Authority,
	sessions service.SessionStore,
	audit service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:        log,
		doctorRepo: doctorRepo,
		authority:  authority,
		sessions:   sessions,
		audit:      audit,
	}
}

func (u *doctorUsecase) Login(ctx context.Context, request *dto.LoginRequest) (*dto.TokenResponse, error) {
	doctor, err := u.doctorRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, tokenID, err := u.authority.Issue(doctor.ID.String(), entity.RoleDoctor)
	if err != nil {
		u.log.Warnf("Failed to issue doctor token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, doctor.ID.String(), tokenID, u.authority.Expiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(u.authority.Expiry().Seconds()),
	}, nil
}

func (u *doctorUsecase) Logout(ctx context.Context, subject, tokenID string) error {
	return u.sessions.Revoke(ctx, subject, tokenID)
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, adminID uuid.UUID, request *dto.CreateDoctorRequest) (*entity.Doctor, error) {
	slots, err := slotsFromRequests(request.Slots)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash doctor password: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:      request.Name,
		Specialty: request.Specialty,
		Email:     request.Email,
		Password:  string(hashed),
		Slots:     slots,
	}

	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDoctorEmailTaken
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	u.audit.Record(ctx, &adminID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), map[string]interface{}{
		"email": doctor.Email,
	})

	return doctor, nil
}

// UpdateDoctor replaces the doctor's profile fields and availability template.
// The password is not touched here.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, adminID, doctorID uuid.UUID, request *dto.UpdateDoctorRequest) (*entity.Doctor, error) {
	slots, err := slotsFromRequests(request.Slots)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	doctor.Name = request.Name
	doctor.Specialty = request.Specialty
	doctor.Email = request.Email
	doctor.Slots = slots

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDoctorEmailTaken
		}
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	u.audit.Record(ctx, &adminID, entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), map[string]interface{}{
		"email": doctor.Email,
	})

	return doctor, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, adminID, doctorID uuid.UUID) error {
	rows, err := u.doctorRepo.Delete(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	u.audit.Record(ctx, &adminID, entity.AuditActionDoctorDelete, "doctor", doctorID.String(), nil)

	return nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// FilterDoctors narrows the doctor list by any combination of name substring,
// exact specialty, and availability template start time. Empty predicates are
// skipped; with none given the full list comes back in stored order.
func (u *doctorUsecase) FilterDoctors(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error) {
	if startTime != "" {
		if _, err := time.Parse("15:04", startTime); err != nil {
			return nil, ErrInvalidTime
		}
	}

	var doctors []entity.Doctor
	var err error

	switch {
	case name != "" && specialty != "" && startTime != "":
		doctors, err = u.doctorRepo.FilterByNameSpecialtyAndTime(ctx, name, specialty, startTime)
	case name != "" && specialty != "":
		doctors, err = u.doctorRepo.FilterByNameAndSpecialty(ctx, name, specialty)
	case name != "" && startTime != "":
		doctors, err = u.doctorRepo.FilterByNameAndTime(ctx, name, startTime)
	case specialty != "" && startTime != "":
		doctors, err = u.doctorRepo.FilterBySpecialtyAndTime(ctx, specialty, startTime)
	case name != "":
		doctors, err = u.doctorRepo.FilterByName(ctx, name)
	case specialty != "":
		doctors, err = u.doctorRepo.FilterBySpecialty(ctx, specialty)
	case startTime != "":
		doctors, err = u.doctorRepo.FilterByTime(ctx, startTime)
	default:
		doctors, err = u.doctorRepo.FindAll(ctx)
	}

	if err != nil {
		u.log.Warnf("Failed to filter doctors: %+v", err)
		return nil, err
	}
	return doctors, nil
}

func slotsFromRequests(requests []dto.SlotRequest) ([]entity.AvailabilitySlot, error) {
	slots := make([]entity.AvailabilitySlot, 0, len(requests))
	for _, r := range requests {
		if _, err := time.Parse("15:04", r.StartTime); err != nil {
			return nil, ErrInvalidTime
		}
		slots = append(slots, entity.AvailabilitySlot{
			Weekday:   r.Weekday,
			StartTime: r.StartTime,
		})
	}
	return slots, nil
}
