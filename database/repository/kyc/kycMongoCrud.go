package kycRepo

import (
	"context"
	"time"

	"coinplay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByUserID returns the verification record for a user, nil if absent.
func (r *mongoKYCRepo) GetByUserID(ctx context.Context, userID string) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByExternalID returns the record referencing a provider session, nil if absent.
func (r *mongoKYCRepo) GetByExternalID(ctx context.Context, externalID string) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := r.coll.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert replaces the user's record in one write, creating it if missing.
func (r *mongoKYCRepo) Upsert(ctx context.Context, rec *models.VerificationRecord) error {
	rec.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"userId": rec.UserID}, rec, opts)
	return err
}

// ReplaceMatchingSession replaces the record only if its externalId still
// matches. The filter doubles as a compare-and-swap: a re-initiation that
// overwrote the externalId makes the replace match nothing.
func (r *mongoKYCRepo) ReplaceMatchingSession(ctx context.Context, externalID string, rec *models.VerificationRecord) (bool, error) {
	rec.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"externalId": externalID}, rec)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// ListStalePending returns pending records not updated since the cutoff.
func (r *mongoKYCRepo) ListStalePending(ctx context.Context, olderThan time.Time) ([]models.VerificationRecord, error) {
	filter := bson.M{
		"status":    models.KYCStatusPending,
		"updatedAt": bson.M{"$lt": olderThan},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.VerificationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
