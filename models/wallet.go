package models

import "time"

// Wallet holds a user's simulated balances. Balances are ledger entries
// only; nothing here settles on-chain.
type Wallet struct {
	UserID    string             `bson:"userId" json:"userId"`
	Balances  map[string]float64 `bson:"balances" json:"balances"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Transaction is one entry in a user's wallet history.
type Transaction struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"userId" json:"userId"`
	Type         string    `bson:"type" json:"type"` // "seed", "swap", "reward"
	FromCurrency string    `bson:"fromCurrency,omitempty" json:"fromCurrency,omitempty"`
	ToCurrency   string    `bson:"toCurrency,omitempty" json:"toCurrency,omitempty"`
	FromAmount   float64   `bson:"fromAmount,omitempty" json:"fromAmount,omitempty"`
	ToAmount     float64   `bson:"toAmount,omitempty" json:"toAmount,omitempty"`
	Rate         float64   `bson:"rate,omitempty" json:"rate,omitempty"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// SwapRequest is the payload accepted by the swap endpoint.
type SwapRequest struct {
	FromCurrency string  `json:"fromCurrency" binding:"required"`
	ToCurrency   string  `json:"toCurrency" binding:"required"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
}
