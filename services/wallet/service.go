package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	walletRepo "coinplay/database/repository/wallet"
	"coinplay/models"
	"coinplay/services/market"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInsufficientFunds is returned when a swap exceeds the available balance.
var ErrInsufficientFunds = errors.New("wallet: insufficient funds")

// seedBalances are the simulated starting balances granted on registration.
var seedBalances = map[string]float64{
	"BTC":  0.005,
	"ETH":  0.1,
	"USDT": 250.0,
	"CPY":  1000.0,
}

// WalletService manages simulated balances, swaps, and history.
type WalletService interface {
	SeedWallet(ctx context.Context, userID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	GetTransactions(ctx context.Context, userID string, limit int64) ([]models.Transaction, error)
	Swap(ctx context.Context, userID string, req models.SwapRequest) (*models.Transaction, error)
}

// DefaultWalletService is the production implementation.
type DefaultWalletService struct {
	Repo   walletRepo.WalletRepository
	Market market.MarketService
}

// SeedWallet creates a wallet with the starting balances. Idempotent: an
// existing wallet is returned untouched.
func (s *DefaultWalletService) SeedWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	existing, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	wallet := &models.Wallet{
		UserID:   userID,
		Balances: map[string]float64{},
	}
	for currency, amount := range seedBalances {
		wallet.Balances[currency] = amount
	}
	if err := s.Repo.Upsert(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if _, err := s.Repo.AppendTransaction(ctx, models.Transaction{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   "seed",
		Status: "completed",
	}); err != nil {
		zap.L().Warn("failed to record seed transaction", zap.String("userID", userID), zap.Error(err))
	}
	return wallet, nil
}

// GetWallet returns the user's wallet, seeding one if it does not exist yet.
func (s *DefaultWalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if wallet == nil {
		return s.SeedWallet(ctx, userID)
	}
	return wallet, nil
}

// GetTransactions fetches the user's history, newest first.
func (s *DefaultWalletService) GetTransactions(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	return s.Repo.GetTransactions(ctx, userID, limit)
}

// Swap converts between two simulated balances at the current reference
// rate. Ledger math only; no settlement happens anywhere.
func (s *DefaultWalletService) Swap(ctx context.Context, userID string, req models.SwapRequest) (*models.Transaction, error) {
	if req.FromCurrency == req.ToCurrency {
		return nil, fmt.Errorf("wallet: cannot swap %s into itself", req.FromCurrency)
	}

	fromRate, err := s.Market.GetRateUSD(req.FromCurrency)
	if err != nil {
		return nil, err
	}
	toRate, err := s.Market.GetRateUSD(req.ToCurrency)
	if err != nil {
		return nil, err
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balances[req.FromCurrency] < req.Amount {
		return nil, ErrInsufficientFunds
	}

	rate := fromRate / toRate
	received := req.Amount * rate

	wallet.Balances[req.FromCurrency] -= req.Amount
	wallet.Balances[req.ToCurrency] += received
	if err := s.Repo.Upsert(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to persist swap: %w", err)
	}

	tx := models.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         "swap",
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		FromAmount:   req.Amount,
		ToAmount:     received,
		Rate:         rate,
		Status:       "completed",
		CreatedAt:    time.Now(),
	}
	if _, err := s.Repo.AppendTransaction(ctx, tx); err != nil {
		zap.L().Warn("failed to record swap transaction", zap.String("userID", userID), zap.Error(err))
	}

	zap.L().Info("swap executed",
		zap.String("userID", userID),
		zap.String("from", req.FromCurrency),
		zap.String("to", req.ToCurrency),
		zap.Float64("amount", req.Amount),
		zap.Float64("received", received))

	return &tx, nil
}
