package user

import (
	"context"
	"fmt"
	"time"

	"coinplay/models"
	"coinplay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const sessionTokenTTL = 24 * time.Hour

// Register creates a new account, seeds its simulated wallet, and returns a
// session token.
func (s *DefaultUserService) Register(ctx context.Context, req models.UserRegistrationRequest) (*AuthResponse, error) {
	existing, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.Phone,
		PasswordHash: string(hash),
		KYCStatus:    models.KYCStatusNotSubmitted,
	}
	if err := s.Repo.Create(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.Wallets != nil {
		if _, err := s.Wallets.SeedWallet(ctx, usr.ID); err != nil {
			zap.L().Warn("failed to seed wallet for new user", zap.String("userID", usr.ID), zap.Error(err))
		}
	}

	return s.issueSession(ctx, usr)
}

// Authenticate verifies credentials and returns a fresh session token.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	usr, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if usr == nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return s.issueSession(ctx, usr)
}

// issueSession mints a JWT and caches its hash so the auth middleware can
// validate without a database round trip.
func (s *DefaultUserService) issueSession(ctx context.Context, usr *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, usr.Capabilities, sessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	cacheKey := utils.AuthCachePrefix + usr.ID
	if err := utils.GetAuthCacheClient().Set(ctx, cacheKey, utils.HashToken(token), utils.AuthCacheTTL).Err(); err != nil {
		zap.L().Warn("failed to cache session token", zap.String("userID", usr.ID), zap.Error(err))
	}

	return &AuthResponse{
		ID:        usr.ID,
		Token:     token,
		Username:  usr.Username,
		Email:     usr.Email,
		KYCStatus: usr.KYCStatus,
	}, nil
}

// RevokeAuthToken drops the cached session so the next request falls back
// to a failed lookup and the user must log in again.
func (s *DefaultUserService) RevokeAuthToken(ctx context.Context, userID string) error {
	cacheKey := utils.AuthCachePrefix + userID
	return utils.GetAuthCacheClient().Del(ctx, cacheKey).Err()
}
