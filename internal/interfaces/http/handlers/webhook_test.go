package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/tapecar-backend/internal/config"
	"github.com/your-org/tapecar-backend/internal/domain/order"
	"github.com/your-org/tapecar-backend/internal/domain/payment"
	"github.com/your-org/tapecar-backend/internal/pkg/email"
)

// spyOrderRepository records paid-marking attempts so tests can assert
// rejected webhooks never reach the order store.
type spyOrderRepository struct {
	pending       *order.Order
	markPaidCalls int
}

func (s *spyOrderRepository) Insert(ctx context.Context, o *order.Order) error { return nil }

func (s *spyOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (s *spyOrderRepository) List(ctx context.Context) ([]order.Order, error) { return nil, nil }

func (s *spyOrderRepository) UpdateStatus(ctx context.Context, number, status string) error {
	return nil
}

func (s *spyOrderRepository) MarkPaidBySession(ctx context.Context, sessionID string, paidAt time.Time) (*order.Order, error) {
	s.markPaidCalls++
	if s.pending == nil || s.pending.PaymentSessionID != sessionID || s.pending.Status != order.StatusPending {
		return nil, order.ErrOrderNotFound
	}
	s.pending.Status = order.StatusPaid
	s.pending.PaidAt = &paidAt
	return s.pending, nil
}

func newWebhookTestRouter(repo order.Repository) (*gin.Engine, *payment.WebhookVerifier) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.App.CompanyName = "Tapecar"
	cfg.External.Email.SMTPDisabled = true

	verifier := payment.NewWebhookVerifier("test-secret")
	handler := NewWebhookHandler(
		verifier,
		order.NewService(repo, logger),
		email.NewEmailService(cfg, logger),
		logger,
	)

	router := gin.New()
	router.POST("/webhooks/payment", handler.HandlePaymentWebhook)
	return router, verifier
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set(payment.SignatureHeader, signature)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	repo := &spyOrderRepository{}
	router, _ := newWebhookTestRouter(repo)

	body := []byte(`{"type":"checkout.session.completed","data":{"session_id":"cs_123"}}`)
	w := postWebhook(router, body, "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, repo.markPaidCalls, "rejected webhook must not touch orders")
}

func TestPaymentWebhookRejectsMalformedBody(t *testing.T) {
	repo := &spyOrderRepository{}
	router, verifier := newWebhookTestRouter(repo)

	body := []byte(`not json`)
	w := postWebhook(router, body, verifier.Sign(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, repo.markPaidCalls)
}

func TestPaymentWebhookIgnoresOtherEvents(t *testing.T) {
	repo := &spyOrderRepository{}
	router, verifier := newWebhookTestRouter(repo)

	body := []byte(`{"type":"checkout.session.expired","data":{"session_id":"cs_123"}}`)
	w := postWebhook(router, body, verifier.Sign(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, repo.markPaidCalls)
}

func TestPaymentWebhookMarksOrderPaid(t *testing.T) {
	repo := &spyOrderRepository{
		pending: &order.Order{
			Number:           "TAP-20260901-ABCD1234",
			PaymentSessionID: "cs_123",
			Status:           order.StatusPending,
			Customer:         order.Customer{Name: "João", Email: "joao@example.com"},
		},
	}
	router, verifier := newWebhookTestRouter(repo)

	body := []byte(`{"type":"checkout.session.completed","data":{"session_id":"cs_123"}}`)
	w := postWebhook(router, body, verifier.Sign(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TAP-20260901-ABCD1234")
	assert.Equal(t, 1, repo.markPaidCalls)
	assert.Equal(t, order.StatusPaid, repo.pending.Status)
	require.NotNil(t, repo.pending.PaidAt)
}

func TestPaymentWebhookUnknownSessionAcknowledged(t *testing.T) {
	repo := &spyOrderRepository{}
	router, verifier := newWebhookTestRouter(repo)

	body := []byte(`{"type":"checkout.session.completed","data":{"session_id":"cs_unknown"}}`)
	w := postWebhook(router, body, verifier.Sign(body))

	// The provider must stop retrying, so a replay or unknown session
	// still answers 200.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.markPaidCalls)
}
