package kyc

import (
	"context"
	"time"

	auditRepo "coinplay/database/repository/audit"
	kycRepo "coinplay/database/repository/kyc"
	userRepo "coinplay/database/repository/user"
	"coinplay/models"

	"go.uber.org/zap"
)

// ActorProvider is the audit actor recorded for provider-originated
// transitions (webhooks and polls).
const ActorProvider = "provider"

// KYCService owns every valid state transition of a user's
// VerificationRecord and is the single point deciding which status a caller
// sees.
type KYCService interface {
	// Initiate creates a provider session and persists a pending record.
	// Re-initiation supersedes any prior pending record's session.
	Initiate(ctx context.Context, userID string, info models.ApplicantInfo) (*models.KYCInitiation, error)
	// GetStatus returns the user's current verification view. Terminal
	// records are served from storage; pending records trigger a provider
	// poll that degrades to the stored status on failure.
	GetStatus(ctx context.Context, userID string) (*models.KYCStatusView, error)
	// ApplyExternalUpdate applies a provider-originated status change,
	// addressed by session ID. Idempotent: re-applying the stored status is
	// a state no-op.
	ApplyExternalUpdate(ctx context.Context, update ProviderUpdate, actor string) (*models.VerificationRecord, error)
}

// StatusNotifier pushes a notification when a verification attempt reaches
// a terminal status. Failures never affect the transition.
type StatusNotifier interface {
	NotifyKYCStatusChange(ctx context.Context, userID string, status models.KYCStatus, reason string) error
}

// DefaultKYCService is the production implementation.
type DefaultKYCService struct {
	Records  kycRepo.VerificationRecordRepository
	Audit    auditRepo.AdminActionLogRepository
	Users    userRepo.UserRepository
	Provider ProviderClient
	Notifier StatusNotifier
	Logger   *zap.Logger

	// Now is the clock used for timestamps; tests override it.
	Now func() time.Time
}

func (s *DefaultKYCService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultKYCService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
