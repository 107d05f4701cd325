package repository

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Book inserts the appointment only if no non-cancelled appointment already
// holds the same (doctor, time) slot. The re-check and insert run in one
// transaction; the partial unique index uniq_active_doctor_slot backstops the
// transaction against writers outside it.
func (r *appointmentRepository) Book(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Appointment{}).
			Where("doctor_id = ? AND appointment_time = ? AND status <> ?",
				appointment.DoctorID, appointment.AppointmentTime, entity.AppointmentStatusCancelled).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domainRepo.ErrSlotConflict
		}
		return tx.Create(appointment).Error
	})
	if isDuplicateKeyError(err, "uniq_active_doctor_slot") {
		return domainRepo.ErrSlotConflict
	}
	return err
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ? AND status <> ?",
			doctorID, from, to, entity.AppointmentStatusCancelled).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindForDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time, patientName string) ([]entity.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ?", doctorID, from, to)

	if patientName != "" {
		query = query.
			Joins("JOIN patients ON patients.id = appointments.patient_id").
			Where("patients.name ILIKE ?", "%"+patientName+"%")
	}

	var appointments []entity.Appointment
	err := query.Order("appointment_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Reschedule moves the appointment time only while the appointment is still
// scheduled. A unique-violation on the active-slot index means the target
// slot is held by another non-cancelled appointment.
func (r *appointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) error {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusScheduled).
		Update("appointment_time", newTime)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error, "uniq_active_doctor_slot") {
			return domainRepo.ErrSlotConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrStatusConflict
	}
	return nil
}

// UpdateStatusIf atomically moves the appointment into the target status only
// when it currently holds one of the permitted source statuses. The
// rows-affected check prevents double-cancel and terminal-state races.
func (r *appointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus, from []entity.AppointmentStatus) error {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrStatusConflict
	}
	return nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientAndStatuses(ctx context.Context, patientID uuid.UUID, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ? AND status IN ?", patientID, statuses).
		Order("appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientAndDoctorName(ctx context.Context, patientID uuid.UUID, doctorName string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.patient_id = ? AND doctors.name = ?", patientID, doctorName).
		Order("appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientDoctorNameAndStatuses(ctx context.Context, patientID uuid.UUID, doctorName string, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.patient_id = ? AND doctors.name = ? AND appointments.status IN ?", patientID, doctorName, statuses).
		Order("appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
