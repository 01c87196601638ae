package service

import (
	"context"
	"errors"
	"fmt"

	"tagfeed/internal/apperror"
	"tagfeed/internal/models"
	"tagfeed/internal/repository"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserSummary, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.UserSummary, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(fmt.Errorf("get user: %w", err))
	}

	summary := user.Summary()
	return &summary, nil
}
