package kyc

import (
	"context"
	"strings"

	"coinplay/models"

	"go.uber.org/zap"
)

// defaultRejectionReason is stored when the provider rejects a session
// without supplying one. A rejected record always carries a reason.
const defaultRejectionReason = "verification rejected by provider"

// Initiate validates the applicant, creates a provider session, and
// persists a fresh pending record. A provider failure leaves any existing
// record untouched.
func (s *DefaultKYCService) Initiate(ctx context.Context, userID string, info models.ApplicantInfo) (*models.KYCInitiation, error) {
	if err := validateApplicant(info); err != nil {
		return nil, err
	}

	existing, err := s.Records.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := s.Provider.CreateSession(ctx, userID, info)
	if err != nil {
		// No record is created or mutated on provider failure.
		return nil, err
	}

	prevStatus := models.KYCStatusNotSubmitted
	if existing != nil {
		prevStatus = existing.Status
	}

	rec := &models.VerificationRecord{
		UserID:      userID,
		ExternalID:  session.ExternalID,
		Status:      models.KYCStatusPending,
		SubmittedAt: s.now(),
	}
	if err := s.Records.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	s.appendAudit(ctx, actorUser(userID), rec, prevStatus, "verification initiated")
	s.syncUserStatus(ctx, userID, models.KYCStatusPending)

	s.logger().Info("KYC session initiated",
		zap.String("userID", userID),
		zap.String("externalID", session.ExternalID))

	return &models.KYCInitiation{
		ExternalID:      session.ExternalID,
		VerificationURL: session.VerificationURL,
	}, nil
}

// GetStatus returns the caller-facing view of a user's verification state.
//
// Terminal records short-circuit: once verified or rejected there is no
// reason to consult the provider again, and an old session could have later
// events we must not re-read. Pending records trigger a poll that degrades
// to the stored status on any provider failure.
func (s *DefaultKYCService) GetStatus(ctx context.Context, userID string) (*models.KYCStatusView, error) {
	rec, err := s.Records.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &models.KYCStatusView{Status: models.KYCStatusNotSubmitted}, nil
	}

	if rec.Status.IsTerminal() || rec.ExternalID == "" {
		return viewOf(rec), nil
	}

	polled, err := s.Provider.PollStatus(ctx, rec.ExternalID)
	if err != nil {
		// A transient provider hiccup must not make a pending verification
		// look broken; serve the last known state.
		s.logger().Warn("KYC status poll failed; returning stored status",
			zap.String("userID", userID),
			zap.String("externalID", rec.ExternalID),
			zap.Error(err))
		return viewOf(rec), nil
	}

	if polled.Status == rec.Status {
		return viewOf(rec), nil
	}

	updated, err := s.ApplyExternalUpdate(ctx, ProviderUpdate{
		ExternalID: rec.ExternalID,
		Status:     polled.Status,
		Reason:     polled.Reason,
		Details:    polled.Details,
	}, ActorProvider)
	if err != nil {
		// The record moved under us (e.g. a concurrent re-initiation);
		// the stored view is still the honest answer.
		s.logger().Warn("KYC poll transition not applied",
			zap.String("userID", userID),
			zap.Error(err))
		return viewOf(rec), nil
	}
	return viewOf(updated), nil
}

// ApplyExternalUpdate looks up the record owning the session and applies the
// transition, maintaining the record invariants. Repeated deliveries of the
// same status are state no-ops (timestamps are not re-stamped), though fresh
// details are persisted.
func (s *DefaultKYCService) ApplyExternalUpdate(ctx context.Context, update ProviderUpdate, actor string) (*models.VerificationRecord, error) {
	rec, err := s.Records.GetByExternalID(ctx, update.ExternalID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		s.logger().Warn("KYC update for unknown session",
			zap.String("externalID", update.ExternalID),
			zap.String("status", string(update.Status)))
		return nil, ErrUnknownSession
	}

	if update.Status == rec.Status {
		// Idempotent redelivery. Refresh details if the provider sent any.
		if update.Details != nil {
			refreshed := *rec
			refreshed.Details = update.Details
			matched, err := s.Records.ReplaceMatchingSession(ctx, update.ExternalID, &refreshed)
			if err != nil {
				return nil, err
			}
			if matched {
				return &refreshed, nil
			}
		}
		return rec, nil
	}

	if rec.Status.IsTerminal() {
		// Terminal per attempt: a late event on a finished session must not
		// reopen it. Acknowledged but not applied.
		s.logger().Warn("KYC update ignored for terminal record",
			zap.String("userID", rec.UserID),
			zap.String("externalID", update.ExternalID),
			zap.String("storedStatus", string(rec.Status)),
			zap.String("pushedStatus", string(update.Status)))
		return rec, nil
	}

	prevStatus := rec.Status
	updated := *rec
	updated.Status = update.Status
	updated.Details = update.Details

	switch update.Status {
	case models.KYCStatusVerified:
		now := s.now()
		updated.VerifiedAt = &now
		updated.RejectionReason = ""
	case models.KYCStatusRejected:
		updated.VerifiedAt = nil
		updated.RejectionReason = update.Reason
		if strings.TrimSpace(updated.RejectionReason) == "" {
			updated.RejectionReason = defaultRejectionReason
		}
	case models.KYCStatusPending:
		// Timestamps untouched.
	}

	matched, err := s.Records.ReplaceMatchingSession(ctx, update.ExternalID, &updated)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Lost the race against a re-initiation that replaced the session.
		return nil, ErrUnknownSession
	}

	s.appendAudit(ctx, actor, &updated, prevStatus, updated.RejectionReason)
	s.syncUserStatus(ctx, updated.UserID, updated.Status)

	if updated.Status.IsTerminal() && s.Notifier != nil {
		if err := s.Notifier.NotifyKYCStatusChange(ctx, updated.UserID, updated.Status, updated.RejectionReason); err != nil {
			s.logger().Warn("KYC status notification failed",
				zap.String("userID", updated.UserID),
				zap.Error(err))
		}
	}

	s.logger().Info("KYC status transition applied",
		zap.String("userID", updated.UserID),
		zap.String("externalID", updated.ExternalID),
		zap.String("from", string(prevStatus)),
		zap.String("to", string(updated.Status)),
		zap.String("actor", actor))

	return &updated, nil
}

// appendAudit records one audit entry per committed transition. Audit
// failures are logged, not propagated: the transition already happened.
func (s *DefaultKYCService) appendAudit(ctx context.Context, actor string, rec *models.VerificationRecord, prev models.KYCStatus, reason string) {
	if s.Audit == nil {
		return
	}
	_, err := s.Audit.Append(ctx, models.AdminActionLogEntry{
		Actor:          actor,
		UserID:         rec.UserID,
		ExternalID:     rec.ExternalID,
		PreviousStatus: prev,
		NewStatus:      rec.Status,
		Reason:         reason,
		CreatedAt:      s.now(),
	})
	if err != nil {
		s.logger().Error("failed to append KYC audit entry",
			zap.String("userID", rec.UserID),
			zap.Error(err))
	}
}

// syncUserStatus mirrors the record status onto the user document for cheap
// display reads. Best effort.
func (s *DefaultKYCService) syncUserStatus(ctx context.Context, userID string, status models.KYCStatus) {
	if s.Users == nil {
		return
	}
	if err := s.Users.UpdateKYCStatus(ctx, userID, status); err != nil {
		s.logger().Warn("failed to sync user KYC status",
			zap.String("userID", userID),
			zap.Error(err))
	}
}

func validateApplicant(info models.ApplicantInfo) error {
	if strings.TrimSpace(info.FirstName) == "" {
		return NewValidationError("firstName is required")
	}
	if strings.TrimSpace(info.LastName) == "" {
		return NewValidationError("lastName is required")
	}
	if strings.TrimSpace(info.Email) == "" {
		return NewValidationError("email is required")
	}
	return nil
}

func viewOf(rec *models.VerificationRecord) *models.KYCStatusView {
	submittedAt := rec.SubmittedAt
	return &models.KYCStatusView{
		Status:          rec.Status,
		SubmittedAt:     &submittedAt,
		VerifiedAt:      rec.VerifiedAt,
		RejectionReason: rec.RejectionReason,
		Details:         rec.Details,
	}
}

func actorUser(userID string) string {
	return "user:" + userID
}
