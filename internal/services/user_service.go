package services

import (
	"context"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/logger"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"
	"cleanops_backend/internal/services/dto"

	"gorm.io/gorm"
)

// UserService manages worker accounts. Cleaner creation goes through the
// trial gate: a company at its cleaner cap must deactivate someone before
// adding the next account.
type UserService interface {
	CreateCleaner(ctx context.Context, companyID string, req *dto.CreateCleanerRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type userService struct {
	userRepo repositories.UserRepository
	billing  BillingService
}

func NewUserService(userRepo repositories.UserRepository, billing BillingService) UserService {
	return &userService{userRepo: userRepo, billing: billing}
}

func (s *userService) CreateCleaner(ctx context.Context, companyID string, req *dto.CreateCleanerRequest) (*models.User, error) {
	if err := s.billing.EnsureCanAddCleaner(ctx, companyID); err != nil {
		return nil, err
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		CompanyID:    companyID,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         models.UserRoleCleaner,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "cleaner created", "user_id", user.ID, "company_id", companyID)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "user active flag changed", "user_id", id, "active", active)
	return nil
}
