package user

import (
	"context"

	userRepo "coinplay/database/repository/user"
	"coinplay/models"
	"coinplay/services/wallet"
)

// UserService covers account registration, authentication, and lookups.
type UserService interface {
	Register(ctx context.Context, req models.UserRegistrationRequest) (*AuthResponse, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	RevokeAuthToken(ctx context.Context, userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Wallets wallet.WalletService
}

// AuthResponse contains the user's ID, session token, and display details.
type AuthResponse struct {
	ID        string           `json:"id"`
	Token     string           `json:"token"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	KYCStatus models.KYCStatus `json:"kycStatus"`
}
