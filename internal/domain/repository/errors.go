package repository

import "errors"

var (
	// ErrSlotConflict is returned by booking and reschedule operations when a
	// non-cancelled appointment already holds the requested doctor slot.
	ErrSlotConflict = errors.New("slot already booked for doctor")

	// ErrStatusConflict is returned by state-conditional updates when the
	// appointment is not in a permitted source state.
	ErrStatusConflict = errors.New("appointment status does not permit transition")

	// ErrDuplicateKey is returned by inserts and updates that violate a
	// unique constraint on an identity column such as email or phone.
	ErrDuplicateKey = errors.New("duplicate key value")
)
