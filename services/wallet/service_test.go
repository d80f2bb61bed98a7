package wallet

import (
	"context"
	"fmt"
	"testing"

	"coinplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWalletRepo struct {
	wallets map[string]*models.Wallet
	txs     []models.Transaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[string]*models.Wallet)}
}

func (r *fakeWalletRepo) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	w, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	cp.Balances = make(map[string]float64, len(w.Balances))
	for k, v := range w.Balances {
		cp.Balances[k] = v
	}
	return &cp, nil
}

func (r *fakeWalletRepo) Upsert(ctx context.Context, wallet *models.Wallet) error {
	r.wallets[wallet.UserID] = wallet
	return nil
}

func (r *fakeWalletRepo) AppendTransaction(ctx context.Context, tx models.Transaction) (string, error) {
	r.txs = append(r.txs, tx)
	return tx.ID, nil
}

func (r *fakeWalletRepo) GetTransactions(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeMarket struct {
	rates map[string]float64
}

func (m *fakeMarket) GetTickers(ctx context.Context) ([]models.Ticker, error) { return nil, nil }

func (m *fakeMarket) GetRateUSD(symbol string) (float64, error) {
	rate, ok := m.rates[symbol]
	if !ok {
		return 0, fmt.Errorf("market: unknown symbol %q", symbol)
	}
	return rate, nil
}

func newWalletFixture() (*DefaultWalletService, *fakeWalletRepo) {
	repo := newFakeWalletRepo()
	svc := &DefaultWalletService{
		Repo:   repo,
		Market: &fakeMarket{rates: map[string]float64{"BTC": 50000, "USDT": 1, "CPY": 0.5}},
	}
	return svc, repo
}

func TestSeedWalletIsIdempotent(t *testing.T) {
	svc, repo := newWalletFixture()

	first, err := svc.SeedWallet(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, seedBalances["USDT"], first.Balances["USDT"])

	repo.wallets["user-1"].Balances["USDT"] = 42

	second, err := svc.SeedWallet(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, second.Balances["USDT"], "existing wallet must not be reseeded")
}

func TestGetWalletSeedsOnFirstRead(t *testing.T) {
	svc, _ := newWalletFixture()

	w, err := svc.GetWallet(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, seedBalances["CPY"], w.Balances["CPY"])
}

func TestSwapConvertsAtReferenceRate(t *testing.T) {
	svc, repo := newWalletFixture()
	repo.wallets["user-1"] = &models.Wallet{
		UserID:   "user-1",
		Balances: map[string]float64{"USDT": 1000, "BTC": 0},
	}

	tx, err := svc.Swap(context.Background(), "user-1", models.SwapRequest{
		FromCurrency: "USDT",
		ToCurrency:   "BTC",
		Amount:       500,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.01, tx.ToAmount, 1e-9)
	w := repo.wallets["user-1"]
	assert.InDelta(t, 500, w.Balances["USDT"], 1e-9)
	assert.InDelta(t, 0.01, w.Balances["BTC"], 1e-9)
}

func TestSwapInsufficientFunds(t *testing.T) {
	svc, repo := newWalletFixture()
	repo.wallets["user-1"] = &models.Wallet{
		UserID:   "user-1",
		Balances: map[string]float64{"USDT": 10},
	}

	_, err := svc.Swap(context.Background(), "user-1", models.SwapRequest{
		FromCurrency: "USDT",
		ToCurrency:   "BTC",
		Amount:       500,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 10.0, repo.wallets["user-1"].Balances["USDT"], "balance must be untouched")
}

func TestSwapSameCurrencyRejected(t *testing.T) {
	svc, _ := newWalletFixture()

	_, err := svc.Swap(context.Background(), "user-1", models.SwapRequest{
		FromCurrency: "USDT",
		ToCurrency:   "USDT",
		Amount:       5,
	})
	assert.Error(t, err)
}
