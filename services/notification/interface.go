package notification

import (
	"context"
	"fmt"

	userRepo "coinplay/database/repository/user"
	"coinplay/models"
	"coinplay/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService sends FCM pushes to users.
type NotificationService interface {
	NotifyKYCStatusChange(ctx context.Context, userID string, status models.KYCStatus, reason string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

// NotifyKYCStatusChange pushes a notification when a verification attempt
// reaches a terminal status.
func (s *DefaultNotificationService) NotifyKYCStatusChange(ctx context.Context, userID string, status models.KYCStatus, reason string) error {
	usr, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("NotifyKYCStatusChange: could not find user %s: %w", userID, err)
	}
	if usr == nil || usr.FCMToken == "" {
		return fmt.Errorf("NotifyKYCStatusChange: user %s has no FCM token", userID)
	}

	title := "Identity verification update"
	body := "Your identity has been verified. Welcome aboard!"
	if status == models.KYCStatusRejected {
		body = "Your identity verification was rejected: " + reason
	}

	msg := &messaging.Message{
		Token: usr.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":   "kyc_status",
			"status": string(status),
		},
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyKYCStatusChange: failed to send FCM message: %w", err)
	}

	zap.L().Debug("KYC push notification sent",
		zap.String("userID", userID),
		zap.String("messageID", response))
	return nil
}
