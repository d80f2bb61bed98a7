package user

import (
	"context"
	"fmt"

	"coinplay/models"
)

// GetUserByID fetches a user by ID.
func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	usr, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if usr == nil {
		return nil, fmt.Errorf("user not found")
	}
	return usr, nil
}

// GetAllUsers returns every registered user. Admin surface only.
func (s *DefaultUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetAll(ctx)
}

// UpdateFCMToken stores the device token used for push notifications.
func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	usr, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	usr.FCMToken = token
	return s.Repo.Update(ctx, usr)
}
