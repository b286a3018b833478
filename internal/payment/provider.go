package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"context"

	"github.com/shopspring/decimal"

	"github.com/farmlink/farm-market-backend/internal/order"
)

// Payment status values reported by the provider for a checkout session.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

// SessionMetadata is attached at session-creation time and read back during
// verification. It always carries the order lines with product ids, so the
// order can be reconstructed without guessing products from line names.
type SessionMetadata struct {
	UserID        int                   `json:"user_id"`
	PaymentMethod string                `json:"payment_method"`
	Shipping      order.ShippingAddress `json:"shipping_address"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Lines         []order.Line          `json:"lines"`
}

// Session is the provider-hosted checkout handoff.
type Session struct {
	ID            string          `json:"id"`
	URL           string          `json:"url"`
	PaymentStatus string          `json:"payment_status"`
	Metadata      SessionMetadata `json:"metadata"`
}

type CreateSessionRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	SuccessURL string          `json:"success_url"`
	CancelURL  string          `json:"cancel_url"`
	Metadata   SessionMetadata `json:"metadata"`
}

// Provider is the external payment collaborator.
type Provider interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
}

var ErrSessionNotFound = errors.New("payment session not found")

// HTTPProvider talks to the hosted-checkout API over plain HTTP.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{baseURL: baseURL, apiKey: apiKey, client: &http.Client{}}
}

var _ Provider = (*HTTPProvider)(nil)

func (p *HTTPProvider) CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Session{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(httpReq)
}

func (p *HTTPProvider) GetSession(ctx context.Context, sessionID string) (Session, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(httpReq)
}

func (p *HTTPProvider) do(req *http.Request) (Session, error) {
	res, err := p.client.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return Session{}, ErrSessionNotFound
	}
	if res.StatusCode >= 400 {
		return Session{}, fmt.Errorf("payment provider returned status %d", res.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return Session{}, err
	}
	return session, nil
}
