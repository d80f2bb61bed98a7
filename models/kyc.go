package models

import "time"

// KYCStatus enumerates the verification states a user can be in.
// KYCStatusNotSubmitted is virtual: it is what callers see when no
// verification record exists, and is never persisted.
type KYCStatus string

const (
	KYCStatusNotSubmitted KYCStatus = "not_submitted"
	KYCStatusPending      KYCStatus = "pending"
	KYCStatusVerified     KYCStatus = "verified"
	KYCStatusRejected     KYCStatus = "rejected"
)

// IsTerminal reports whether the status ends the current verification attempt.
// A new transition out of a terminal status requires a brand-new submission.
func (s KYCStatus) IsTerminal() bool {
	return s == KYCStatusVerified || s == KYCStatusRejected
}

// VerificationRecord is the single per-user record of an identity
// verification attempt. New submissions overwrite the record; it is never
// deleted.
//
// Invariants maintained by the KYC service:
//   - VerifiedAt is non-nil iff Status == verified.
//   - RejectionReason is non-empty iff Status == rejected.
//   - ExternalID, once set, is never reassigned within the same attempt.
type VerificationRecord struct {
	UserID          string                 `bson:"userId" json:"userId"`
	ExternalID      string                 `bson:"externalId,omitempty" json:"externalId,omitempty"`
	Status          KYCStatus              `bson:"status" json:"status"`
	SubmittedAt     time.Time              `bson:"submittedAt" json:"submittedAt"`
	VerifiedAt      *time.Time             `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	RejectionReason string                 `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Details         map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	UpdatedAt       time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// ApplicantInfo carries the personal data forwarded to the verification
// provider when a session is initiated.
type ApplicantInfo struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

// KYCInitiation is returned to the caller after a provider session has been
// created and the pending record persisted.
type KYCInitiation struct {
	ExternalID      string `json:"externalId"`
	VerificationURL string `json:"verificationUrl"`
}

// KYCStatusView is the read contract surfaced to callers of GetStatus.
type KYCStatusView struct {
	Status          KYCStatus              `json:"status"`
	SubmittedAt     *time.Time             `json:"submittedAt,omitempty"`
	VerifiedAt      *time.Time             `json:"verifiedAt,omitempty"`
	RejectionReason string                 `json:"rejectionReason,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
}
