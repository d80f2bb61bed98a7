package supportRepo

import (
	"context"

	"coinplay/database"
	"coinplay/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SupportTicketRepository defines data access for support tickets.
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket models.SupportTicket) (string, error)
	GetByUserID(ctx context.Context, userID string) ([]models.SupportTicket, error)
}

type mongoSupportRepo struct {
	coll *mongo.Collection
}

// NewMongoSupportRepo returns a SupportTicketRepository backed by MongoDB.
func NewMongoSupportRepo() SupportTicketRepository {
	return &mongoSupportRepo{
		coll: database.DB().Collection("support_tickets"),
	}
}
