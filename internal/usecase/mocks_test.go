package usecase

import (
	"context"
	"sync"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
)

// --- Mock DoctorRepository ---

type MockDoctorRepository struct {
	CreateFunc                       func(ctx context.Context, doctor *entity.Doctor) error
	FindByIDFunc                     func(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByEmailFunc                  func(ctx context.Context, email string) (*entity.Doctor, error)
	FindAllFunc                      func(ctx context.Context) ([]entity.Doctor, error)
	UpdateFunc                       func(ctx context.Context, doctor *entity.Doctor) error
	DeleteFunc                       func(ctx context.Context, id uuid.UUID) (int64, error)
	FilterByNameFunc                 func(ctx context.Context, name string) ([]entity.Doctor, error)
	FilterBySpecialtyFunc            func(ctx context.Context, specialty string) ([]entity.Doctor, error)
	FilterByTimeFunc                 func(ctx context.Context, startTime string) ([]entity.Doctor, error)
	FilterByNameAndSpecialtyFunc     func(ctx context.Context, name, specialty string) ([]entity.Doctor, error)
	FilterByNameAndTimeFunc          func(ctx context.Context, name, startTime string) ([]entity.Doctor, error)
	FilterBySpecialtyAndTimeFunc     func(ctx context.Context, specialty, startTime string) ([]entity.Doctor, error)
	FilterByNameSpecialtyAndTimeFunc func(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error)
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, doctor)
	}
	return nil
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FindByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockDoctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, doctor)
	}
	return nil
}

func (m *MockDoctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 0, nil
}

func (m *MockDoctorRepository) FilterByName(ctx context.Context, name string) ([]entity.Doctor, error) {
	if m.FilterByNameFunc != nil {
		return m.FilterByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FilterBySpecialty(ctx context.Context, specialty string) ([]entity.Doctor, error) {
	if m.FilterBySpecialtyFunc != nil {
		return m.FilterBySpecialtyFunc(ctx, specialty)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FilterByTime(ctx context.Context, startTime string) ([]entity.Doctor, error) {
	if m.FilterByTimeFunc != nil {
		return m.FilterByTimeFunc(ctx, startTime)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FilterByNameAndSpecialty(ctx context.Context, name, specialty string) ([]entity.Doctor, error) {
	if m.FilterByNameAndSpecialtyFunc != nil {
		return m.FilterByNameAndSpecialtyFunc(ctx, name, specialty)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FilterByNameAndTime(ctx context.Context, name, startTime string) ([]entity.Doctor, error) {
	if m.FilterByNameAndTimeFunc != nil {
		return m.FilterByNameAndTimeFunc(ctx, name, startTime)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FilterBySpecialtyAndTime(ctx context.Context, specialty, startTime string) ([]entity.Doctor, error) {
	if m.FilterBySpecialtyAndTimeFunc != nil {
		return m.FilterBySpecialtyAndTimeFunc(ctx, specialty, startTime)
	}
	return nil, nil
}

func (m *MockDoctorRepository) FilterByNameSpecialtyAndTime(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error) {
	if m.FilterByNameSpecialtyAndTimeFunc != nil {
		return m.FilterByNameSpecialtyAndTimeFunc(ctx, name, specialty, startTime)
	}
	return nil, nil
}

// --- Mock AppointmentRepository ---

type MockAppointmentRepository struct {
	BookFunc                               func(ctx context.Context, appointment *entity.Appointment) error
	FindByIDFunc                           func(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindActiveByDoctorBetweenFunc          func(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	FindForDoctorBetweenFunc               func(ctx context.Context, doctorID uuid.UUID, from, to time.Time, patientName string) ([]entity.Appointment, error)
	RescheduleFunc                         func(ctx context.Context, id uuid.UUID, newTime time.Time) error
	UpdateStatusIfFunc                     func(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus, from []entity.AppointmentStatus) error
	FindByPatientFunc                      func(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByPatientAndStatusesFunc           func(ctx context.Context, patientID uuid.UUID, statuses []entity.AppointmentStatus) ([]entity.Appointment, error)
	FindByPatientAndDoctorNameFunc         func(ctx context.Context, patientID uuid.UUID, doctorName string) ([]entity.Appointment, error)
	FindByPatientDoctorNameAndStatusesFunc func(ctx context.Context, patientID uuid.UUID, doctorName string, statuses []entity.AppointmentStatus) ([]entity.Appointment, error)
}

func (m *MockAppointmentRepository) Book(ctx context.Context, appointment *entity.Appointment) error {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, appointment)
	}
	return nil
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) FindActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	if m.FindActiveByDoctorBetweenFunc != nil {
		return m.FindActiveByDoctorBetweenFunc(ctx, doctorID, from, to)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) FindForDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time, patientName string) ([]entity.Appointment, error) {
	if m.FindForDoctorBetweenFunc != nil {
		return m.FindForDoctorBetweenFunc(ctx, doctorID, from, to, patientName)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) error {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, id, newTime)
	}
	return nil
}

func (m *MockAppointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus, from []entity.AppointmentStatus) error {
	if m.UpdateStatusIfFunc != nil {
		return m.UpdateStatusIfFunc(ctx, id, to, from)
	}
	return nil
}

func (m *MockAppointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	if m.FindByPatientFunc != nil {
		return m.FindByPatientFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) FindByPatientAndStatuses(ctx context.Context, patientID uuid.UUID, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
	if m.FindByPatientAndStatusesFunc != nil {
		return m.FindByPatientAndStatusesFunc(ctx, patientID, statuses)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) FindByPatientAndDoctorName(ctx context.Context, patientID uuid.UUID, doctorName string) ([]entity.Appointment, error) {
	if m.FindByPatientAndDoctorNameFunc != nil {
		return m.FindByPatientAndDoctorNameFunc(ctx, patientID, doctorName)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) FindByPatientDoctorNameAndStatuses(ctx context.Context, patientID uuid.UUID, doctorName string, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
	if m.FindByPatientDoctorNameAndStatusesFunc != nil {
		return m.FindByPatientDoctorNameAndStatusesFunc(ctx, patientID, doctorName, statuses)
	}
	return nil, nil
}

// --- Mock PatientRepository ---

type MockPatientRepository struct {
	CreateFunc             func(ctx context.Context, patient *entity.Patient) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindByEmailFunc        func(ctx context.Context, email string) (*entity.Patient, error)
	FindByEmailOrPhoneFunc func(ctx context.Context, email, phone string) (*entity.Patient, error)
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPatientRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockPatientRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*entity.Patient, error) {
	if m.FindByEmailOrPhoneFunc != nil {
		return m.FindByEmailOrPhoneFunc(ctx, email, phone)
	}
	return nil, nil
}

// --- Mock AdminRepository ---

type MockAdminRepository struct {
	FindByUsernameFunc func(ctx context.Context, username string) (*entity.Admin, error)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

// --- Mock PrescriptionRepository ---

type MockPrescriptionRepository struct {
	SaveFunc                func(ctx context.Context, prescription *entity.Prescription) error
	FindByAppointmentIDFunc func(ctx context.Context, appointmentID uuid.UUID) (*entity.Prescription, error)
}

func (m *MockPrescriptionRepository) Save(ctx context.Context, prescription *entity.Prescription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, prescription)
	}
	return nil
}

func (m *MockPrescriptionRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Prescription, error) {
	if m.FindByAppointmentIDFunc != nil {
		return m.FindByAppointmentIDFunc(ctx, appointmentID)
	}
	return nil, nil
}

// --- Mock AuditLogRepository ---

type MockAuditLogRepository struct {
	mu      sync.Mutex
	Entries []entity.AuditLog

	CreateFunc  func(ctx context.Context, log *entity.AuditLog) error
	FindAllFunc func(ctx context.Context) ([]entity.AuditLog, error)
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *log)
	return nil
}

func (m *MockAuditLogRepository) FindAll(ctx context.Context) ([]entity.AuditLog, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Entries, nil
}

// --- Mock SessionStore ---

type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]bool

	SaveFunc     func(ctx context.Context, subject, tokenID string, ttl time.Duration) error
	IsActiveFunc func(ctx context.Context, subject, tokenID string) (bool, error)
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]bool)}
}

func (m *MockSessionStore) Save(ctx context.Context, subject, tokenID string, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, subject, tokenID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[subject+":"+tokenID] = true
	return nil
}

func (m *MockSessionStore) IsActive(ctx context.Context, subject, tokenID string) (bool, error) {
	if m.IsActiveFunc != nil {
		return m.IsActiveFunc(ctx, subject, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[subject+":"+tokenID], nil
}

func (m *MockSessionStore) Revoke(ctx context.Context, subject, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, subject+":"+tokenID)
	return nil
}

func (m *MockSessionStore) RevokeAll(ctx context.Context, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.sessions {
		if len(key) > len(subject) && key[:len(subject)+1] == subject+":" {
			delete(m.sessions, key)
		}
	}
	return nil
}

// --- In-memory audit service for tests ---

type MockAuditService struct {
	mu      sync.Mutex
	Actions []string
}

func (m *MockAuditService) Record(ctx context.Context, actorID *uuid.UUID, action string, entityName string, entityID string, detail interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Actions = append(m.Actions, action)
}

var _ repository.DoctorRepository = (*MockDoctorRepository)(nil)
var _ repository.AppointmentRepository = (*MockAppointmentRepository)(nil)
var _ repository.PatientRepository = (*MockPatientRepository)(nil)
