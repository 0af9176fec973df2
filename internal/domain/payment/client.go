package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/your-org/tapecar-backend/internal/config"
)

// SessionItem is one purchasable line sent to the payment provider.
// Price is the unit price in centavos.
type SessionItem struct {
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Images   []string `json:"images,omitempty"`
	Quantity int      `json:"quantity"`
}

// SessionShipping carries the freight charge as the provider's
// localized currency string, e.g. "R$24,90".
type SessionShipping struct {
	Valor string `json:"valor"`
}

// CreateSessionRequest is the provider's session-creation payload.
type CreateSessionRequest struct {
	Items      []SessionItem    `json:"items"`
	Shipping   *SessionShipping `json:"shipping,omitempty"`
	SuccessURL string           `json:"success_url"`
	CancelURL  string           `json:"cancel_url"`
}

// Session is the provider's answer: where to send the buyer, and the
// provider-side identifier we later correlate webhooks against.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to the hosted-checkout payment provider.
type Client struct {
	baseURL   string
	apiKey    string
	returnURL string
	http      *http.Client
}

// NewClient creates a payment provider client. returnURL is the public
// storefront URL the provider redirects the buyer back to.
func NewClient(cfg *config.PaymentConfig, returnURL string) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		returnURL: returnURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateSession asks the provider for a hosted checkout session. The
// caller redirects the buyer to Session.URL.
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	if req.SuccessURL == "" {
		req.SuccessURL = c.returnURL + "/pedido-confirmado"
	}
	if req.CancelURL == "" {
		req.CancelURL = c.returnURL + "/carrinho"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("payment provider returned no redirect URL")
	}

	return &session, nil
}
