package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/tapecar-backend/internal/config"
)

func TestCreateSession(t *testing.T) {
	var got CreateSessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Session{ID: "cs_123", URL: "https://pay.example/cs_123"})
	}))
	defer srv.Close()

	client := NewClient(&config.PaymentConfig{BaseURL: srv.URL, APIKey: "test-key"}, "https://loja.example")
	session, err := client.CreateSession(context.Background(), &CreateSessionRequest{
		Items: []SessionItem{
			{Name: "Tapete Gol", Price: 3500, Quantity: 2, Images: []string{"https://img.example/gol.jpg"}},
		},
		Shipping: &SessionShipping{Valor: "R$24,90"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://pay.example/cs_123", session.URL)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(3500), got.Items[0].Price)
	require.NotNil(t, got.Shipping)
	assert.Equal(t, "R$24,90", got.Shipping.Valor)
	assert.Equal(t, "https://loja.example/pedido-confirmado", got.SuccessURL)
	assert.Equal(t, "https://loja.example/carrinho", got.CancelURL)
}

func TestCreateSessionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(&config.PaymentConfig{BaseURL: srv.URL, APIKey: "test-key"}, "https://loja.example")
	_, err := client.CreateSession(context.Background(), &CreateSessionRequest{})
	assert.Error(t, err)
}

func TestCreateSessionMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Session{ID: "cs_123"})
	}))
	defer srv.Close()

	client := NewClient(&config.PaymentConfig{BaseURL: srv.URL, APIKey: "test-key"}, "https://loja.example")
	_, err := client.CreateSession(context.Background(), &CreateSessionRequest{})
	assert.Error(t, err)
}

func TestWebhookVerify(t *testing.T) {
	v := NewWebhookVerifier("shhh")
	body := []byte(`{"type":"checkout.session.completed","data":{"session_id":"cs_123"}}`)

	event, err := v.Verify(body, v.Sign(body))
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_123", event.Data.SessionID)
}

func TestWebhookVerifyBadSignature(t *testing.T) {
	v := NewWebhookVerifier("shhh")
	body := []byte(`{"type":"checkout.session.completed"}`)

	_, err := v.Verify(body, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	other := NewWebhookVerifier("different-secret")
	_, err = v.Verify(body, other.Sign(body))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestWebhookVerifyMalformedBody(t *testing.T) {
	v := NewWebhookVerifier("shhh")
	body := []byte(`not json`)

	_, err := v.Verify(body, v.Sign(body))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}
