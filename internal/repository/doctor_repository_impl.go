package repository

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		if isUniqueViolation(err) {
			return domainRepo.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC, start_time ASC")
		}).
		Where("id = ?", id).
		First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC, start_time ASC")
		}).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

// Update replaces the doctor row and its availability template in one
// transaction.
func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Doctor{}).
			Where("id = ?", doctor.ID).
			Updates(map[string]interface{}{
				"name":      doctor.Name,
				"specialty": doctor.Specialty,
				"email":     doctor.Email,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("doctor_id = ?", doctor.ID).Delete(&entity.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		for i := range doctor.Slots {
			doctor.Slots[i].ID = 0
			doctor.Slots[i].DoctorID = doctor.ID
		}
		if len(doctor.Slots) > 0 {
			if err := tx.Create(&doctor.Slots).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && isUniqueViolation(err) {
		return domainRepo.ErrDuplicateKey
	}
	return err
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) FilterByName(ctx context.Context, name string) ([]entity.Doctor, error) {
	return r.filter(r.db.WithContext(ctx).Where("name ILIKE ?", "%"+name+"%"))
}

func (r *doctorRepository) FilterBySpecialty(ctx context.Context, specialty string) ([]entity.Doctor, error) {
	return r.filter(r.db.WithContext(ctx).Where("specialty = ?", specialty))
}

func (r *doctorRepository) FilterByTime(ctx context.Context, startTime string) ([]entity.Doctor, error) {
	return r.filter(r.withSlotAt(ctx, startTime))
}

func (r *doctorRepository) FilterByNameAndSpecialty(ctx context.Context, name, specialty string) ([]entity.Doctor, error) {
	return r.filter(r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		Where("specialty = ?", specialty))
}

func (r *doctorRepository) FilterByNameAndTime(ctx context.Context, name, startTime string) ([]entity.Doctor, error) {
	return r.filter(r.withSlotAt(ctx, startTime).
		Where("name ILIKE ?", "%"+name+"%"))
}

func (r *doctorRepository) FilterBySpecialtyAndTime(ctx context.Context, specialty, startTime string) ([]entity.Doctor, error) {
	return r.filter(r.withSlotAt(ctx, startTime).
		Where("specialty = ?", specialty))
}

func (r *doctorRepository) FilterByNameSpecialtyAndTime(ctx context.Context, name, specialty, startTime string) ([]entity.Doctor, error) {
	return r.filter(r.withSlotAt(ctx, startTime).
		Where("name ILIKE ?", "%"+name+"%").
		Where("specialty = ?", specialty))
}

// withSlotAt restricts doctors to those with at least one template slot
// starting at the given time of day on any weekday.
func (r *doctorRepository) withSlotAt(ctx context.Context, startTime string) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM availability_slots WHERE availability_slots.doctor_id = doctors.id AND availability_slots.start_time = ?)", startTime)
}

func (r *doctorRepository) filter(query *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := query.
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC, start_time ASC")
		}).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}
