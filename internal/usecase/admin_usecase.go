package usecase

import (
	"context"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"
	"clinic-appointment-service/pkg/token"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AdminUsecase interface {
	Login(ctx context.Context, request *dto.AdminLoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, subject, tokenID string) error
}

type adminUsecase struct {
	log       *logrus.Logger
	adminRepo repository.AdminRepository
	authority *token.Authority
	sessions  service.SessionStore
}

func NewAdminUsecase(
	log *logrus.Logger,
	adminRepo repository.AdminRepository,
	authority *token.Authority,
	sessions service.SessionStore,
) AdminUsecase {
	return &adminUsecase{
		log:       log,
		adminRepo: adminRepo,
		authority: authority,
		sessions:  sessions,
	}
}

func (u *adminUsecase) Login(ctx context.Context, request *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	admin, err := u.adminRepo.FindByUsername(ctx, request.Username)
	if err != nil {
		u.log.Warnf("Failed to find admin by username: %+v", err)
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, tokenID, err := u.authority.Issue(admin.ID.String(), entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to issue admin token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, admin.ID.String(), tokenID, u.authority.Expiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(u.authority.Expiry().Seconds()),
	}, nil
}

func (u *adminUsecase) Logout(ctx context.Context, subject, tokenID string) error {
	return u.sessions.Revoke(ctx, subject, tokenID)
}
