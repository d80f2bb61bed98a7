package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"coinplay/models"
	"coinplay/services/kyc"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubKYCService struct {
	applied   []kyc.ProviderUpdate
	actors    []string
	returnErr error
}

func (s *stubKYCService) Initiate(ctx context.Context, userID string, info models.ApplicantInfo) (*models.KYCInitiation, error) {
	return nil, nil
}

func (s *stubKYCService) GetStatus(ctx context.Context, userID string) (*models.KYCStatusView, error) {
	return nil, nil
}

func (s *stubKYCService) ApplyExternalUpdate(ctx context.Context, update kyc.ProviderUpdate, actor string) (*models.VerificationRecord, error) {
	s.applied = append(s.applied, update)
	s.actors = append(s.actors, actor)
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return &models.VerificationRecord{ExternalID: update.ExternalID, Status: update.Status}, nil
}

func newWebhookTestRouter(svc *stubKYCService, verifier *kyc.WebhookVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewKYCWebhookHandler(svc, verifier)
	r.POST("/webhooks/kyc", h.Handle)
	return r
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/kyc", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(kyc.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandlerAppliesSignedUpdate(t *testing.T) {
	svc := &stubKYCService{}
	verifier := kyc.NewWebhookVerifier("topsecret")
	r := newWebhookTestRouter(svc, verifier)

	body := []byte(`{"sessionId":"sess-1","status":"verified"}`)
	w := postWebhook(r, body, verifier.Sign(body))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.applied, 1)
	assert.Equal(t, "sess-1", svc.applied[0].ExternalID)
	assert.Equal(t, models.KYCStatusVerified, svc.applied[0].Status)
	assert.Equal(t, []string{kyc.ActorProvider}, svc.actors)
}

func TestWebhookHandlerRejectsBadSignature(t *testing.T) {
	svc := &stubKYCService{}
	verifier := kyc.NewWebhookVerifier("topsecret")
	r := newWebhookTestRouter(svc, verifier)

	body := []byte(`{"sessionId":"sess-1","status":"verified"}`)
	w := postWebhook(r, body, "sha256=0000000000000000000000000000000000000000000000000000000000000000")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.applied, "no state change on failed authenticity check")
}

func TestWebhookHandlerRejectsMissingSignature(t *testing.T) {
	svc := &stubKYCService{}
	verifier := kyc.NewWebhookVerifier("topsecret")
	r := newWebhookTestRouter(svc, verifier)

	w := postWebhook(r, []byte(`{"sessionId":"sess-1","status":"verified"}`), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.applied)
}

func TestWebhookHandlerRejectsMalformedPayload(t *testing.T) {
	svc := &stubKYCService{}
	verifier := kyc.NewWebhookVerifier("topsecret")
	r := newWebhookTestRouter(svc, verifier)

	body := []byte(`{"status":"verified"}`)
	w := postWebhook(r, body, verifier.Sign(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.applied)
}

func TestWebhookHandlerUnknownSession(t *testing.T) {
	svc := &stubKYCService{returnErr: kyc.ErrUnknownSession}
	verifier := kyc.NewWebhookVerifier("topsecret")
	r := newWebhookTestRouter(svc, verifier)

	body := []byte(`{"sessionId":"sess-stale","status":"verified"}`)
	w := postWebhook(r, body, verifier.Sign(body))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
