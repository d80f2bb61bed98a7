package models

import "time"

// Ticker is a mock market-data point for one currency.
type Ticker struct {
	Symbol       string    `json:"symbol"`
	PriceUSD     float64   `json:"priceUsd"`
	Change24hPct float64   `json:"change24hPct"`
	GeneratedAt  time.Time `json:"generatedAt"`
}
