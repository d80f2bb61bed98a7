package walletRepo

import (
	"context"
	"time"

	"coinplay/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByUserID retrieves a user's wallet, nil if absent.
func (r *mongoWalletRepo) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.wallets.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Upsert replaces the user's wallet in one write, creating it if missing.
func (r *mongoWalletRepo) Upsert(ctx context.Context, wallet *models.Wallet) error {
	wallet.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.wallets.ReplaceOne(ctx, bson.M{"userId": wallet.UserID}, wallet, opts)
	return err
}

// AppendTransaction records one history entry and returns its ID.
func (r *mongoWalletRepo) AppendTransaction(ctx context.Context, tx models.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err := r.transactions.InsertOne(ctx, tx)
	if err != nil {
		return "", err
	}
	return tx.ID, nil
}

// GetTransactions fetches a user's history, newest first.
func (r *mongoWalletRepo) GetTransactions(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.transactions.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
