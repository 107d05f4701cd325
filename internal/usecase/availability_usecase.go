package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidDate    = errors.New("invalid date format, use YYYY-MM-DD")
)

// AvailabilityUsecase resolves the open slot-starts for a doctor on a date:
// the doctor's weekday availability template minus the starts of already
// booked, non-cancelled appointments.
type AvailabilityUsecase interface {
	AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}

type availabilityUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
	}
}

// AvailableSlots returns open slot-starts in template order (ascending by
// time of day). A slot is open when no non-cancelled appointment for the
// doctor starts at that time on the given date.
func (u *availabilityUsecase) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	template := doctor.TemplateFor(day.Weekday())
	if len(template) == 0 {
		return []string{}, nil
	}

	booked, err := u.appointmentRepo.FindActiveByDoctorBetween(ctx, doctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	bookedStarts := make(map[string]bool, len(booked))
	for _, appointment := range booked {
		bookedStarts[appointment.AppointmentTime.UTC().Format("15:04")] = true
	}

	open := make([]string, 0, len(template))
	for _, start := range template {
		if !bookedStarts[start] {
			open = append(open, start)
		}
	}
	return open, nil
}
