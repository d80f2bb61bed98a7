package supportRepo

import (
	"context"
	"time"

	"coinplay/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new support ticket and returns its ID.
func (r *mongoSupportRepo) Create(ctx context.Context, ticket models.SupportTicket) (string, error) {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	ticket.CreatedAt = time.Now()
	if ticket.Status == "" {
		ticket.Status = "open"
	}

	_, err := r.coll.InsertOne(ctx, ticket)
	if err != nil {
		return "", err
	}
	return ticket.ID, nil
}

// GetByUserID fetches all tickets submitted by a user, newest first.
func (r *mongoSupportRepo) GetByUserID(ctx context.Context, userID string) ([]models.SupportTicket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []models.SupportTicket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}
