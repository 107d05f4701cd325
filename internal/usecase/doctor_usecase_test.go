package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-appointment-service/config"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func testAuthority() *token.Authority {
	return token.NewAuthority(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour})
}

func newDoctorUsecaseForTest(doctorRepo *MockDoctorRepository) (DoctorUsecase, *MockSessionStore, *MockAuditService) {
	sessions := NewMockSessionStore()
	audit := &MockAuditService{}
	return NewDoctorUsecase(testLogger(), doctorRepo, testAuthority(), sessions, audit), sessions, audit
}

func TestDoctorLogin_Success(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	doctorID := uuid.New()
	doctorRepo := &MockDoctorRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.Doctor, error) {
			return &entity.Doctor{ID: doctorID, Email: email, Password: string(hashed)}, nil
		},
	}
	uc, sessions, _ := newDoctorUsecaseForTest(doctorRepo)

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "a@clinic.test", Password: "secret-password"})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := testAuthority().Validate(resp.Token, entity.RoleDoctor)
	assert.NoError(t, err)
	assert.Equal(t, doctorID.String(), claims.Subject)

	active, err := sessions.IsActive(context.Background(), claims.Subject, claims.TokenID)
	assert.NoError(t, err)
	assert.True(t, active)
}

func TestDoctorLogin_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	doctorRepo := &MockDoctorRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.Doctor, error) {
			return &entity.Doctor{ID: uuid.New(), Email: email, Password: string(hashed)}, nil
		},
	}
	uc, _, _ := newDoctorUsecaseForTest(doctorRepo)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "a@clinic.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDoctorLogin_UnknownEmail(t *testing.T) {
	uc, _, _ := newDoctorUsecaseForTest(&MockDoctorRepository{})

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@clinic.test", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateDoctor_HashesPasswordAndAudits(t *testing.T) {
	var created *entity.Doctor
	doctorRepo := &MockDoctorRepository{
		CreateFunc: func(ctx context.Context, doctor *entity.Doctor) error {
			doctor.ID = uuid.New()
			created = doctor
			return nil
		},
	}
	uc, _, audit := newDoctorUsecaseForTest(doctorRepo)

	doctor, err := uc.CreateDoctor(context.Background(), uuid.New(), &dto.CreateDoctorRequest{
		Name:      "Dr. Adams",
		Specialty: "Cardiology",
		Email:     "adams@clinic.test",
		Password:  "secret-password",
		Slots: []dto.SlotRequest{
			{Weekday: int(time.Monday), StartTime: "09:00"},
		},
	})
	assert.NoError(t, err)
	assert.NotEqual(t, "secret-password", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret-password")))
	assert.Len(t, doctor.Slots, 1)
	assert.Contains(t, audit.Actions, entity.AuditActionDoctorCreate)
}

func TestCreateDoctor_DuplicateEmail(t *testing.T) {
	doctorRepo := &MockDoctorRepository{
		CreateFunc: func(ctx context.Context, doctor *entity.Doctor) error {
			return repository.ErrDuplicateKey
		},
	}
	uc, _, _ := newDoctorUsecaseForTest(doctorRepo)

	_, err := uc.CreateDoctor(context.Background(), uuid.New(), &dto.CreateDoctorRequest{
		Name:      "Dr. Adams",
		Specialty: "Cardiology",
		Email:     "adams@clinic.test",
		Password:  "secret-password",
	})
	assert.ErrorIs(t, err, ErrDoctorEmailTaken)
}

func TestCreateDoctor_BadSlotTime(t *testing.T) {
	uc, _, _ := newDoctorUsecaseForTest(&MockDoctorRepository{})

	_, err := uc.CreateDoctor(context.Background(), uuid.New(), &dto.CreateDoctorRequest{
		Name:      "Dr. Adams",
		Specialty: "Cardiology",
		Email:     "adams@clinic.test",
		Password:  "secret-password",
		Slots:     []dto.SlotRequest{{Weekday: 1, StartTime: "9am"}},
	})
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestUpdateDoctor_NotFound(t *testing.T) {
	uc, _, _ := newDoctorUsecaseForTest(&MockDoctorRepository{})

	_, err := uc.UpdateDoctor(context.Background(), uuid.New(), uuid.New(), &dto.UpdateDoctorRequest{
		Name:      "Dr. Adams",
		Specialty: "Cardiology",
		Email:     "adams@clinic.test",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestDeleteDoctor_NotFound(t *testing.T) {
	uc, _, _ := newDoctorUsecaseForTest(&MockDoctorRepository{})

	err := uc.DeleteDoctor(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestDeleteDoctor_Audits(t *testing.T) {
	doctorRepo := &MockDoctorRepository{
		DeleteFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 1, nil
		},
	}
	uc, _, audit := newDoctorUsecaseForTest(doctorRepo)

	err := uc.DeleteDoctor(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
	assert.Contains(t, audit.Actions, entity.AuditActionDoctorDelete)
}

// Each predicate combination must reach exactly the matching finder.
func TestFilterDoctors_Dispatch(t *testing.T) {
	var called string
	record := func(name string) []entity.Doctor {
		called = name
		return []entity.Doctor{{Name: name}}
	}
	doctorRepo := &MockDoctorRepository{
		FindAllFunc: func(ctx context.Context) ([]entity.Doctor, error) {
			return record("all"), nil
		},
		FilterByNameFunc: func(ctx context.Context, name string) ([]entity.Doctor, error) {
			return record("name"), nil
		},
		FilterBySpecialtyFunc: func(ctx context.Context, specialty string) ([]entity.Doctor, error) {
			return record("specialty"), nil
		},
		FilterByTimeFunc: func(ctx context.Context, startTime string) ([]entity.Doctor, error) {
			return record("time"), nil
		},
		FilterByNameAndSpecialtyFunc: func(ctx context.Context, name, specialty string) ([]entity.Doctor, error) {
			return record("name+specialty"), nil
		},
		FilterByNameAndTimeFunc: func(ctx context.Context, name, startTime string) ([]entity.Doctor, error) {
			return record("name+time"), nil
		},
		FilterBySpecialtyAndTimeFunc: func(ctx context.Context, specialty, startTime string) ([]entity.Doctor, error) {
			return record("specialty+time"), nil
		},
		FilterByNameSpecialtyAndTimeFunc: func(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error) {
			return record("name+specialty+time"), nil
		},
	}
	uc, _, _ := newDoctorUsecaseForTest(doctorRepo)

	cases := []struct {
		name, specialty, startTime string
		want                       string
	}{
		{"", "", "", "all"},
		{"adams", "", "", "name"},
		{"", "Cardiology", "", "specialty"},
		{"", "", "09:00", "time"},
		{"adams", "Cardiology", "", "name+specialty"},
		{"adams", "", "09:00", "name+time"},
		{"", "Cardiology", "09:00", "specialty+time"},
		{"adams", "Cardiology", "09:00", "name+specialty+time"},
	}

	for _, tc := range cases {
		called = ""
		doctors, err := uc.FilterDoctors(context.Background(), tc.name, tc.specialty, tc.startTime)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, called)
		assert.Len(t, doctors, 1)
	}
}

func TestFilterDoctors_BadTime(t *testing.T) {
	uc, _, _ := newDoctorUsecaseForTest(&MockDoctorRepository{})

	_, err := uc.FilterDoctors(context.Background(), "", "", "9 o'clock")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestDoctorLogout_RevokesSession(t *testing.T) {
	uc, sessions, _ := newDoctorUsecaseForTest(&MockDoctorRepository{})

	subject := uuid.New().String()
	assert.NoError(t, sessions.Save(context.Background(), subject, "tok-1", time.Hour))

	assert.NoError(t, uc.Logout(context.Background(), subject, "tok-1"))

	active, err := sessions.IsActive(context.Background(), subject, "tok-1")
	assert.NoError(t, err)
	assert.False(t, active)
}
