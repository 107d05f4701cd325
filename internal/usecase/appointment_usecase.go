package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSlotUnavailable     = errors.New("slot is not available for this doctor")
	ErrSlotTaken           = errors.New("slot was just booked by another patient")
	ErrInvalidTransition   = errors.New("appointment status does not permit this operation")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to caller")
	ErrInvalidTime         = errors.New("invalid time format, use HH:MM")
)

// ValidationResult is the three-way outcome of validating a booking request
// against a doctor's availability.
type ValidationResult int

const (
	ValidationDoctorNotFound  ValidationResult = -1
	ValidationSlotUnavailable ValidationResult = 0
	ValidationValid           ValidationResult = 1
)

type AppointmentUsecase interface {
	Validate(ctx context.Context, doctorID uuid.UUID, at time.Time) (ValidationResult, error)
	Book(ctx context.Context, patientID uuid.UUID, request *dto.BookAppointmentRequest) (*entity.Appointment, error)
	Reschedule(ctx context.Context, patientID, appointmentID uuid.UUID, request *dto.RescheduleAppointmentRequest) (*entity.Appointment, error)
	Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) error
	Complete(ctx context.Context, doctorID, appointmentID uuid.UUID) error
	GetForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date string, patientName string) ([]entity.Appointment, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	slotLock        *service.SlotLockService
	audit           service.AuditService
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	slotLock *service.SlotLockService,
	audit service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		slotLock:        slotLock,
		audit:           audit,
	}
}

// Validate checks a requested booking time against the doctor's availability.
// The result is ValidationDoctorNotFound when the doctor does not exist,
// ValidationSlotUnavailable when the time is not in the doctor's template or
// a non-cancelled appointment already starts then, and ValidationValid
// otherwise. Validation alone does not reserve anything; Book re-checks under
// the doctor lock and inside the insert transaction.
func (u *appointmentUsecase) Validate(ctx context.Context, doctorID uuid.UUID, at time.Time) (ValidationResult, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return ValidationDoctorNotFound, err
	}
	if doctor == nil {
		return ValidationDoctorNotFound, nil
	}

	at = at.UTC()
	start := at.Format("15:04")

	inTemplate := false
	for _, templateStart := range doctor.TemplateFor(at.Weekday()) {
		if templateStart == start {
			inTemplate = true
			break
		}
	}
	if !inTemplate {
		return ValidationSlotUnavailable, nil
	}

	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	booked, err := u.appointmentRepo.FindActiveByDoctorBetween(ctx, doctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return ValidationSlotUnavailable, err
	}
	for _, appointment := range booked {
		if appointment.AppointmentTime.UTC().Equal(at) {
			return ValidationSlotUnavailable, nil
		}
	}

	return ValidationValid, nil
}

// Book reserves a slot for the patient. The whole validate-and-insert runs
// under the per-doctor lock, and the insert transaction re-checks the slot,
// so of two concurrent requests for the same slot exactly one succeeds and
// the other gets ErrSlotTaken.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, request *dto.BookAppointmentRequest) (*entity.Appointment, error) {
	at, err := parseAppointmentTime(request.Date, request.Time)
	if err != nil {
		return nil, err
	}

	u.slotLock.Lock(request.DoctorID)
	defer u.slotLock.Unlock(request.DoctorID)

	result, err := u.Validate(ctx, request.DoctorID, at)
	if err != nil {
		return nil, err
	}
	switch result {
	case ValidationDoctorNotFound:
		return nil, ErrDoctorNotFound
	case ValidationSlotUnavailable:
		return nil, ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		DoctorID:        request.DoctorID,
		PatientID:       patientID,
		AppointmentTime: at,
		Status:          entity.AppointmentStatusScheduled,
	}

	if err := u.appointmentRepo.Book(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to book appointment: %+v", err)
		return nil, err
	}

	u.audit.Record(ctx, &patientID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), map[string]interface{}{
		"doctor_id":        request.DoctorID.String(),
		"appointment_time": at.Format(time.RFC3339),
	})

	return appointment, nil
}

// Reschedule moves a scheduled appointment owned by the patient to a new
// time. The new slot is validated under the doctor lock the same way Book
// validates, and the conditional update fails with ErrInvalidTransition if
// the appointment has left the scheduled state in the meantime.
func (u *appointmentUsecase) Reschedule(ctx context.Context, patientID, appointmentID uuid.UUID, request *dto.RescheduleAppointmentRequest) (*entity.Appointment, error) {
	appointment, err := u.ownedByPatient(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.CanReschedule() {
		return nil, ErrInvalidTransition
	}

	at, err := parseAppointmentTime(request.Date, request.Time)
	if err != nil {
		return nil, err
	}

	u.slotLock.Lock(appointment.DoctorID)
	defer u.slotLock.Unlock(appointment.DoctorID)

	result, err := u.Validate(ctx, appointment.DoctorID, at)
	if err != nil {
		return nil, err
	}
	if result != ValidationValid {
		return nil, ErrSlotUnavailable
	}

	if err := u.appointmentRepo.Reschedule(ctx, appointmentID, at); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotConflict):
			return nil, ErrSlotTaken
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrInvalidTransition
		}
		u.log.Warnf("Failed to reschedule appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.audit.Record(ctx, &patientID, entity.AuditActionAppointmentUpdate, "appointment", appointmentID.String(), map[string]interface{}{
		"old_time": appointment.AppointmentTime.UTC().Format(time.RFC3339),
		"new_time": at.Format(time.RFC3339),
	})

	appointment.AppointmentTime = at
	return appointment, nil
}

// Cancel moves an appointment owned by the patient to cancelled. Allowed
// from scheduled and prescription_issued; completed and cancelled are
// terminal.
func (u *appointmentUsecase) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) error {
	appointment, err := u.ownedByPatient(ctx, patientID, appointmentID)
	if err != nil {
		return err
	}
	if !appointment.CanCancel() {
		return ErrInvalidTransition
	}

	err = u.appointmentRepo.UpdateStatusIf(ctx, appointmentID, entity.AppointmentStatusCancelled, entity.CancellableStatuses())
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrInvalidTransition
		}
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}

	u.audit.Record(ctx, &patientID, entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(), map[string]interface{}{
		"previous_status": string(appointment.Status),
	})

	return nil
}

// Complete moves an appointment to completed. Only the appointment's doctor
// may complete it, and only from prescription_issued.
func (u *appointmentUsecase) Complete(ctx context.Context, doctorID, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return ErrAppointmentNotOwned
	}

	err = u.appointmentRepo.UpdateStatusIf(ctx, appointmentID, entity.AppointmentStatusCompleted,
		[]entity.AppointmentStatus{entity.AppointmentStatusPrescriptionIssued})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrInvalidTransition
		}
		u.log.Warnf("Failed to complete appointment %s: %+v", appointmentID, err)
		return err
	}

	u.audit.Record(ctx, &doctorID, entity.AuditActionAppointmentUpdate, "appointment", appointmentID.String(), map[string]interface{}{
		"status": string(entity.AppointmentStatusCompleted),
	})

	return nil
}

// GetForDoctorOnDate lists a doctor's appointments on a date, optionally
// narrowed to patients whose name matches.
func (u *appointmentUsecase) GetForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date string, patientName string) ([]entity.Appointment, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	appointments, err := u.appointmentRepo.FindForDoctorBetween(ctx, doctorID, day, day.AddDate(0, 0, 1), patientName)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}
	return appointments, nil
}

func (u *appointmentUsecase) ownedByPatient(ctx context.Context, patientID, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrAppointmentNotOwned
	}
	return appointment, nil
}

// parseAppointmentTime composes a calendar date and a time of day into one
// UTC instant.
func parseAppointmentTime(date, tod string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	clock, err := time.Parse("15:04", tod)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}
