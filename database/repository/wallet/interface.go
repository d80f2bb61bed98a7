package walletRepo

import (
	"context"

	"coinplay/database"
	"coinplay/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// WalletRepository defines data access for wallets and their transaction
// history.
type WalletRepository interface {
	// GetByUserID retrieves a user's wallet, nil if absent.
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	// Upsert replaces the user's wallet, creating it if missing.
	Upsert(ctx context.Context, wallet *models.Wallet) error
	// AppendTransaction records one history entry.
	AppendTransaction(ctx context.Context, tx models.Transaction) (string, error)
	// GetTransactions fetches a user's history, newest first.
	GetTransactions(ctx context.Context, userID string, limit int64) ([]models.Transaction, error)
}

type mongoWalletRepo struct {
	wallets      *mongo.Collection
	transactions *mongo.Collection
}

// NewMongoWalletRepo returns a WalletRepository backed by MongoDB.
func NewMongoWalletRepo() WalletRepository {
	db := database.DB()
	return &mongoWalletRepo{
		wallets:      db.Collection("wallets"),
		transactions: db.Collection("transactions"),
	}
}
