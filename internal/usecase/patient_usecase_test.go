package usecase

import (
	"context"
	"testing"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newPatientUsecaseForTest(patientRepo *MockPatientRepository, appointmentRepo *MockAppointmentRepository) (PatientUsecase, *MockSessionStore) {
	sessions := NewMockSessionStore()
	return NewPatientUsecase(testLogger(), patientRepo, appointmentRepo, testAuthority(), sessions), sessions
}

func TestRegister_Success(t *testing.T) {
	var created *entity.Patient
	patientRepo := &MockPatientRepository{
		CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
			patient.ID = uuid.New()
			created = patient
			return nil
		},
	}
	uc, _ := newPatientUsecaseForTest(patientRepo, &MockAppointmentRepository{})

	patient, err := uc.Register(context.Background(), &dto.RegisterPatientRequest{
		Name:     "Pat Jones",
		Email:    "pat@example.test",
		Phone:    "+15550001111",
		Password: "secret-password",
	})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, patient.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret-password")))
}

func TestRegister_EmailOrPhoneTaken(t *testing.T) {
	patientRepo := &MockPatientRepository{
		FindByEmailOrPhoneFunc: func(ctx context.Context, email, phone string) (*entity.Patient, error) {
			return &entity.Patient{ID: uuid.New()}, nil
		},
	}
	uc, _ := newPatientUsecaseForTest(patientRepo, &MockAppointmentRepository{})

	_, err := uc.Register(context.Background(), &dto.RegisterPatientRequest{
		Name:     "Pat Jones",
		Email:    "pat@example.test",
		Phone:    "+15550001111",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrPatientExists)
}

// The pre-check can lose to a concurrent insert; the unique constraint
// violation maps to the same error.
func TestRegister_DuplicateKeyRace(t *testing.T) {
	patientRepo := &MockPatientRepository{
		CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
			return repository.ErrDuplicateKey
		},
	}
	uc, _ := newPatientUsecaseForTest(patientRepo, &MockAppointmentRepository{})

	_, err := uc.Register(context.Background(), &dto.RegisterPatientRequest{
		Name:     "Pat Jones",
		Email:    "pat@example.test",
		Phone:    "+15550001111",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrPatientExists)
}

func TestPatientLogin_Success(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	patientID := uuid.New()
	patientRepo := &MockPatientRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.Patient, error) {
			return &entity.Patient{ID: patientID, Email: email, Password: string(hashed)}, nil
		},
	}
	uc, sessions := newPatientUsecaseForTest(patientRepo, &MockAppointmentRepository{})

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.test", Password: "secret-password"})
	assert.NoError(t, err)

	claims, err := testAuthority().Validate(resp.Token, entity.RolePatient)
	assert.NoError(t, err)
	assert.Equal(t, patientID.String(), claims.Subject)

	active, err := sessions.IsActive(context.Background(), claims.Subject, claims.TokenID)
	assert.NoError(t, err)
	assert.True(t, active)
}

func TestPatientLogin_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	patientRepo := &MockPatientRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.Patient, error) {
			return &entity.Patient{ID: uuid.New(), Email: email, Password: string(hashed)}, nil
		},
	}
	uc, _ := newPatientUsecaseForTest(patientRepo, &MockAppointmentRepository{})

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.test", Password: "nope-nope-nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetProfile_NotFound(t *testing.T) {
	uc, _ := newPatientUsecaseForTest(&MockPatientRepository{}, &MockAppointmentRepository{})

	_, err := uc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestFilterAppointments_ConditionMapping(t *testing.T) {
	patientID := uuid.New()
	var captured []entity.AppointmentStatus
	appointmentRepo := &MockAppointmentRepository{
		FindByPatientAndStatusesFunc: func(ctx context.Context, id uuid.UUID, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
			captured = statuses
			return nil, nil
		},
	}
	uc, _ := newPatientUsecaseForTest(&MockPatientRepository{}, appointmentRepo)

	_, err := uc.FilterAppointments(context.Background(), patientID, ConditionPast, "")
	assert.NoError(t, err)
	assert.Equal(t, []entity.AppointmentStatus{
		entity.AppointmentStatusPrescriptionIssued,
		entity.AppointmentStatusCompleted,
	}, captured)

	_, err = uc.FilterAppointments(context.Background(), patientID, ConditionFuture, "")
	assert.NoError(t, err)
	assert.Equal(t, []entity.AppointmentStatus{entity.AppointmentStatusScheduled}, captured)
}

func TestFilterAppointments_Dispatch(t *testing.T) {
	patientID := uuid.New()
	var called string
	appointmentRepo := &MockAppointmentRepository{
		FindByPatientFunc: func(ctx context.Context, id uuid.UUID) ([]entity.Appointment, error) {
			called = "all"
			return nil, nil
		},
		FindByPatientAndStatusesFunc: func(ctx context.Context, id uuid.UUID, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
			called = "condition"
			return nil, nil
		},
		FindByPatientAndDoctorNameFunc: func(ctx context.Context, id uuid.UUID, doctorName string) ([]entity.Appointment, error) {
			called = "doctor"
			return nil, nil
		},
		FindByPatientDoctorNameAndStatusesFunc: func(ctx context.Context, id uuid.UUID, doctorName string, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
			called = "condition+doctor"
			return nil, nil
		},
	}
	uc, _ := newPatientUsecaseForTest(&MockPatientRepository{}, appointmentRepo)

	cases := []struct {
		condition, doctorName string
		want                  string
	}{
		{"", "", "all"},
		{ConditionPast, "", "condition"},
		{"", "Dr. Adams", "doctor"},
		{ConditionFuture, "Dr. Adams", "condition+doctor"},
	}

	for _, tc := range cases {
		called = ""
		_, err := uc.FilterAppointments(context.Background(), patientID, tc.condition, tc.doctorName)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, called)
	}
}

func TestFilterAppointments_InvalidCondition(t *testing.T) {
	uc, _ := newPatientUsecaseForTest(&MockPatientRepository{}, &MockAppointmentRepository{})

	_, err := uc.FilterAppointments(context.Background(), uuid.New(), "yesterday", "")
	assert.ErrorIs(t, err, ErrInvalidCondition)
}
