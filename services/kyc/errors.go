package kyc

import (
	"errors"
	"fmt"
)

// ErrUnknownSession is returned when a webhook or poll update references a
// provider session no stored record points at. This is the expected outcome
// for sessions made stale by re-initiation.
var ErrUnknownSession = errors.New("kyc: no verification record matches the session")

// ValidationError reports bad caller input. Surfaced as a 4xx.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "kyc: " + e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// ConfigurationError reports missing provider credentials or endpoints.
// Operator-fixable; never retried automatically.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "kyc: " + e.Message
}

// AuthenticationError reports that the provider rejected our credentials.
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("kyc: provider rejected credentials (status %d)", e.StatusCode)
}

// ProviderUnavailableError reports a transient network or provider failure.
// Callers retry via normal polling; the service never retries internally.
type ProviderUnavailableError struct {
	Op  string
	Err error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("kyc: provider call %s failed: %v", e.Op, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// MalformedPayloadError reports a webhook body missing required fields.
type MalformedPayloadError struct {
	Message string
}

func (e *MalformedPayloadError) Error() string {
	return "kyc: malformed webhook payload: " + e.Message
}
