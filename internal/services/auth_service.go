package services

import (
	"context"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/auth"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/repositories"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Login verifies credentials and issues an access token. Inactive
// accounts cannot sign in.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, apperrors.ErrWorkerInactive
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}
	return token, user, nil
}
