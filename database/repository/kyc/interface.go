package kycRepo

import (
	"context"
	"time"

	"coinplay/database"
	"coinplay/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// VerificationRecordRepository is the persistence contract the KYC service
// depends on. One record per user; lookups by user ID or by the provider's
// session ID.
type VerificationRecordRepository interface {
	// GetByUserID returns the user's record, or nil if none exists.
	GetByUserID(ctx context.Context, userID string) (*models.VerificationRecord, error)
	// GetByExternalID returns the record owning the given provider session,
	// or nil if no record references it.
	GetByExternalID(ctx context.Context, externalID string) (*models.VerificationRecord, error)
	// Upsert replaces the user's record in a single atomic write, creating
	// it if absent.
	Upsert(ctx context.Context, rec *models.VerificationRecord) error
	// ReplaceMatchingSession replaces the record in a single atomic write,
	// but only if its stored externalId still equals externalID. Returns
	// false when no record matched, which means the session went stale
	// between read and write.
	ReplaceMatchingSession(ctx context.Context, externalID string, rec *models.VerificationRecord) (bool, error)
	// ListStalePending returns pending records whose last update is older
	// than the cutoff. Used by the reconciliation worker.
	ListStalePending(ctx context.Context, olderThan time.Time) ([]models.VerificationRecord, error)
}

type mongoKYCRepo struct {
	coll *mongo.Collection
}

// NewMongoKYCRepo returns a VerificationRecordRepository backed by MongoDB.
func NewMongoKYCRepo() VerificationRecordRepository {
	repo := &mongoKYCRepo{
		coll: database.DB().Collection("verification_records"),
	}
	repo.EnsureIndexes()
	return repo
}
