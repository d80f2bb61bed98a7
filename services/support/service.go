package support

import (
	"context"

	supportRepo "coinplay/database/repository/support"
	"coinplay/models"
)

// SupportService serves the FAQ center and accepts support tickets.
type SupportService interface {
	ListFAQs() []models.FAQ
	CreateTicket(ctx context.Context, userID string, req models.SupportTicketRequest) (string, error)
	GetUserTickets(ctx context.Context, userID string) ([]models.SupportTicket, error)
}

// DefaultSupportService is the production implementation.
type DefaultSupportService struct {
	Repo supportRepo.SupportTicketRepository
}

// faqs is the static FAQ catalog rendered by the support center.
var faqs = []models.FAQ{
	{ID: "faq-1", Category: "wallet", Question: "Are the wallet balances real?", Answer: "No. Balances are simulated for the rewards program and never settle on-chain."},
	{ID: "faq-2", Category: "kyc", Question: "Why do I need to verify my identity?", Answer: "Verification unlocks swaps and reward withdrawals and keeps the platform compliant."},
	{ID: "faq-3", Category: "kyc", Question: "How long does verification take?", Answer: "Most checks complete within minutes. You can always see the current state on your profile."},
	{ID: "faq-4", Category: "swap", Question: "What rate do swaps use?", Answer: "Swaps settle at the reference rate shown on the market dashboard at execution time."},
	{ID: "faq-5", Category: "rewards", Question: "What is CPY?", Answer: "CPY is the platform rewards token earned through gameplay and promotions."},
}

// ListFAQs returns the FAQ catalog.
func (s *DefaultSupportService) ListFAQs() []models.FAQ {
	return faqs
}

// CreateTicket records a new support request.
func (s *DefaultSupportService) CreateTicket(ctx context.Context, userID string, req models.SupportTicketRequest) (string, error) {
	return s.Repo.Create(ctx, models.SupportTicket{
		UserID:  userID,
		Subject: req.Subject,
		Message: req.Message,
		Status:  "open",
	})
}

// GetUserTickets lists tickets submitted by the user.
func (s *DefaultSupportService) GetUserTickets(ctx context.Context, userID string) ([]models.SupportTicket, error) {
	return s.Repo.GetByUserID(ctx, userID)
}
