package kyc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// SignatureHeader is the header the provider signs webhook deliveries with.
const SignatureHeader = "X-Kyc-Signature"

// WebhookVerifier checks that an inbound status push genuinely originates
// from the provider before any parsing or persistence happens.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier builds a verifier from the shared webhook secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Verify recomputes the HMAC-SHA256 signature over the raw body and compares
// it against the signature header in constant time. It returns false, never
// an error, on any mismatch, missing header, or misconfiguration, so the
// caller can respond with a uniform authorization failure.
func (v *WebhookVerifier) Verify(headers http.Header, rawBody []byte) bool {
	if len(v.secret) == 0 {
		return false
	}

	header := headers.Get(SignatureHeader)
	if header == "" {
		return false
	}
	// Providers commonly prefix the hex digest with the algorithm name.
	header = strings.TrimPrefix(header, "sha256=")

	provided, err := hex.DecodeString(header)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	return hmac.Equal(provided, expected)
}

// Sign computes the signature the provider would attach to the given body.
// Used by tests and by local tooling that replays webhook deliveries.
func (v *WebhookVerifier) Sign(rawBody []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
