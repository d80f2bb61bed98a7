package auditRepo

import (
	"context"

	"coinplay/database"
	"coinplay/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AdminActionLogRepository is the append-only audit trail for KYC status
// transitions.
type AdminActionLogRepository interface {
	Append(ctx context.Context, entry models.AdminActionLogEntry) (string, error)
	GetByUserID(ctx context.Context, userID string) ([]models.AdminActionLogEntry, error)
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns an AdminActionLogRepository backed by MongoDB.
func NewMongoAuditRepo() AdminActionLogRepository {
	return &mongoAuditRepo{
		coll: database.DB().Collection("admin_action_log"),
	}
}
