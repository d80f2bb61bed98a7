package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"coinplay/models"

	"go.uber.org/zap"
)

// ProviderSession is the result of initiating a verification session.
type ProviderSession struct {
	ExternalID      string
	VerificationURL string
}

// ProviderStatus is the result of polling a session.
type ProviderStatus struct {
	Status  models.KYCStatus
	Reason  string
	Details map[string]interface{}
}

// ProviderUpdate is a provider-originated status change, produced either by
// parsing a webhook payload or by a poll.
type ProviderUpdate struct {
	ExternalID string
	Status     models.KYCStatus
	Reason     string
	Details    map[string]interface{}
}

// ProviderClient isolates the verification provider's HTTP shape so the
// service layer never sees raw wire formats.
type ProviderClient interface {
	CreateSession(ctx context.Context, userID string, info models.ApplicantInfo) (*ProviderSession, error)
	PollStatus(ctx context.Context, externalID string) (*ProviderStatus, error)
}

// HTTPProviderClient talks to the provider's REST API. Every outbound call
// is bounded by the configured timeout.
type HTTPProviderClient struct {
	baseURL     string
	apiKey      string
	apiSecret   string
	redirectURL string
	client      *http.Client
	logger      *zap.Logger

	mu          sync.Mutex
	bearerToken string
	tokenExpiry time.Time
}

// ProviderClientConfig carries the credentials and endpoints for the
// provider integration.
type ProviderClientConfig struct {
	BaseURL     string
	APIKey      string
	APISecret   string
	RedirectURL string
	Timeout     time.Duration
}

// NewHTTPProviderClient builds a provider client from configuration.
func NewHTTPProviderClient(cfg ProviderClientConfig, logger *zap.Logger) *HTTPProviderClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProviderClient{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		apiSecret:   cfg.APISecret,
		redirectURL: cfg.RedirectURL,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// authenticate exchanges the configured API key/secret for a short-lived
// bearer token, caching it until shortly before expiry.
func (p *HTTPProviderClient) authenticate(ctx context.Context) (string, error) {
	if p.apiKey == "" || p.apiSecret == "" {
		return "", &ConfigurationError{Message: "provider API key/secret not configured"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bearerToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.bearerToken, nil
	}

	body, _ := json.Marshal(map[string]string{
		"apiKey":    p.apiKey,
		"apiSecret": p.apiSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderUnavailableError{Op: "authenticate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderUnavailableError{Op: "authenticate", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &AuthenticationError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderUnavailableError{Op: "authenticate", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var tokenResp struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil || tokenResp.Token == "" {
		return "", &ProviderUnavailableError{Op: "authenticate", Err: fmt.Errorf("invalid token response")}
	}

	p.bearerToken = tokenResp.Token
	// Refresh a minute early so in-flight calls never carry an expired token.
	ttl := time.Duration(tokenResp.ExpiresIn) * time.Second
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	p.tokenExpiry = time.Now().Add(ttl)
	return p.bearerToken, nil
}

// CreateSession initiates a verification session for the applicant and
// returns the provider's session ID plus the hosted verification URL.
func (p *HTTPProviderClient) CreateSession(ctx context.Context, userID string, info models.ApplicantInfo) (*ProviderSession, error) {
	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]string{
		"externalUserId": userID,
		"firstName":      info.FirstName,
		"lastName":       info.LastName,
		"email":          info.Email,
		"phone":          info.Phone,
		"redirectUrl":    p.redirectURL,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/kyc/initiate", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderUnavailableError{Op: "createSession", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderUnavailableError{Op: "createSession", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderUnavailableError{Op: "createSession", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var sessionResp struct {
		SessionID       string `json:"sessionId"`
		VerificationURL string `json:"verificationUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		return nil, &ProviderUnavailableError{Op: "createSession", Err: err}
	}
	if sessionResp.SessionID == "" || sessionResp.VerificationURL == "" {
		return nil, &ProviderUnavailableError{Op: "createSession", Err: fmt.Errorf("incomplete session response")}
	}

	return &ProviderSession{
		ExternalID:      sessionResp.SessionID,
		VerificationURL: sessionResp.VerificationURL,
	}, nil
}

// PollStatus fetches the current status of a session by its ID.
func (p *HTTPProviderClient) PollStatus(ctx context.Context, externalID string) (*ProviderStatus, error) {
	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/kyc/status/"+externalID, nil)
	if err != nil {
		return nil, &ProviderUnavailableError{Op: "pollStatus", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderUnavailableError{Op: "pollStatus", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderUnavailableError{Op: "pollStatus", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var statusResp struct {
		Status  string                 `json:"status"`
		Reason  string                 `json:"reason"`
		Details map[string]interface{} `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return nil, &ProviderUnavailableError{Op: "pollStatus", Err: err}
	}

	status, ok := normalizeProviderStatus(statusResp.Status)
	if !ok {
		return nil, &ProviderUnavailableError{Op: "pollStatus", Err: fmt.Errorf("unknown provider status %q", statusResp.Status)}
	}

	return &ProviderStatus{
		Status:  status,
		Reason:  statusResp.Reason,
		Details: statusResp.Details,
	}, nil
}

// ParseWebhookPayload transforms a provider-shaped webhook body into a
// ProviderUpdate. Pure; performs no I/O.
func ParseWebhookPayload(rawBody []byte) (*ProviderUpdate, error) {
	var payload struct {
		SessionID string                 `json:"sessionId"`
		Status    string                 `json:"status"`
		Reason    string                 `json:"reason"`
		Details   map[string]interface{} `json:"details"`
	}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, &MalformedPayloadError{Message: err.Error()}
	}
	if payload.SessionID == "" {
		return nil, &MalformedPayloadError{Message: "missing sessionId"}
	}
	status, ok := normalizeProviderStatus(payload.Status)
	if !ok {
		return nil, &MalformedPayloadError{Message: fmt.Sprintf("unknown status %q", payload.Status)}
	}

	return &ProviderUpdate{
		ExternalID: payload.SessionID,
		Status:     status,
		Reason:     payload.Reason,
		Details:    payload.Details,
	}, nil
}

// normalizeProviderStatus maps provider status strings onto our enum.
// Providers variously report "approved"/"verified" and "declined"/"rejected".
func normalizeProviderStatus(s string) (models.KYCStatus, bool) {
	switch s {
	case "pending", "in_review":
		return models.KYCStatusPending, true
	case "verified", "approved":
		return models.KYCStatusVerified, true
	case "rejected", "declined":
		return models.KYCStatusRejected, true
	default:
		return "", false
	}
}
