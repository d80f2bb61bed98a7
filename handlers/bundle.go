package handlers

import (
	userRepo "coinplay/database/repository/user"
)

// HandlerBundle aggregates all HTTP handlers plus the repositories the
// middleware needs, so route registration takes a single dependency.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	KYC        *KYCHandler
	KYCWebhook *KYCWebhookHandler
	Wallet     *WalletHandler
	Market     *MarketHandler
	Support    *SupportHandler
	Admin      *AdminHandler
	Storage    *StorageHandler
}
