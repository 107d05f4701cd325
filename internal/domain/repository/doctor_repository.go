package repository

import (
	"context"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorRepository persists doctors and their availability templates. The
// Filter* finders each implement one combination of the doctor search
// predicates; the usecase selects which to call.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*entity.Doctor, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)

	FilterByName(ctx context.Context, name string) ([]entity.Doctor, error)
	FilterBySpecialty(ctx context.Context, specialty string) ([]entity.Doctor, error)
	FilterByTime(ctx context.Context, startTime string) ([]entity.Doctor, error)
	FilterByNameAndSpecialty(ctx context.Context, name, specialty string) ([]entity.Doctor, error)
	FilterByNameAndTime(ctx context.Context, name, startTime string) ([]entity.Doctor, error)
	FilterBySpecialtyAndTime(ctx context.Context, specialty, startTime string) ([]entity.Doctor, error)
	FilterByNameSpecialtyAndTime(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error)
}
