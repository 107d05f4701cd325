package repository

import (
	"context"

	"clinic-appointment-service/internal/domain/entity"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Admin, error)
}
