package kyc

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signedHeaders(v *WebhookVerifier, body []byte) http.Header {
	h := http.Header{}
	h.Set(SignatureHeader, v.Sign(body))
	return h
}

func TestWebhookVerifyAcceptsValidSignature(t *testing.T) {
	v := NewWebhookVerifier("topsecret")
	body := []byte(`{"sessionId":"sess-1","status":"verified"}`)

	assert.True(t, v.Verify(signedHeaders(v, body), body))
}

func TestWebhookVerifyAcceptsPrefixedSignature(t *testing.T) {
	v := NewWebhookVerifier("topsecret")
	body := []byte(`{"sessionId":"sess-1","status":"verified"}`)

	h := http.Header{}
	h.Set(SignatureHeader, "sha256="+v.Sign(body))
	assert.True(t, v.Verify(h, body))
}

func TestWebhookVerifyRejectsTamperedBody(t *testing.T) {
	v := NewWebhookVerifier("topsecret")
	body := []byte(`{"sessionId":"sess-1","status":"rejected"}`)
	headers := signedHeaders(v, body)

	tampered := []byte(`{"sessionId":"sess-1","status":"verified"}`)
	assert.False(t, v.Verify(headers, tampered))
}

func TestWebhookVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewWebhookVerifier("their-secret")
	v := NewWebhookVerifier("our-secret")
	body := []byte(`{"sessionId":"sess-1"}`)

	assert.False(t, v.Verify(signedHeaders(signer, body), body))
}

func TestWebhookVerifyRejectsMissingHeader(t *testing.T) {
	v := NewWebhookVerifier("topsecret")
	assert.False(t, v.Verify(http.Header{}, []byte(`{}`)))
}

func TestWebhookVerifyRejectsGarbageSignature(t *testing.T) {
	v := NewWebhookVerifier("topsecret")
	h := http.Header{}
	h.Set(SignatureHeader, "not-hex-at-all")
	assert.False(t, v.Verify(h, []byte(`{}`)))
}

func TestWebhookVerifyRejectsWhenSecretUnset(t *testing.T) {
	v := NewWebhookVerifier("")
	body := []byte(`{}`)
	h := http.Header{}
	h.Set(SignatureHeader, "deadbeef")
	assert.False(t, v.Verify(h, body))
}
