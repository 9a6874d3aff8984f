// internal/domain/payment/mercadopago.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/config"
)

// LineItem is one cart line sent to the payment provider.
type LineItem struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"` // minor units
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"picture_url,omitempty"`
}

// CustomerData identifies the buyer on the provider side.
type CustomerData struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SessionRequest is the payload for creating a hosted checkout session.
type SessionRequest struct {
	Items             []LineItem   `json:"items"`
	Customer          CustomerData `json:"payer"`
	SuccessURL        string       `json:"success_url"`
	CancelURL         string       `json:"cancel_url"`
	ExternalReference string       `json:"external_reference"`
	Currency          string       `json:"currency_id"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Session is the provider's answer: where to send the buyer, and the
// id to reconcile against later.
type Session struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// Client talks to the MercadoPago checkout API over plain HTTP.
type Client struct {
	baseURL    string
	token      string
	secret     string
	httpClient *http.Client
}

// NewClient builds a Client from payment configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
		secret:  cfg.WebhookSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCheckoutSession creates a hosted checkout preference and
// returns the redirect URL together with the provider session id.
// Any non-2xx answer is an error and the response body is included
// for diagnosis.
func (c *Client) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, respBody)
	}

	var raw struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if raw.InitPoint == "" || raw.ID == "" {
		return nil, fmt.Errorf("provider response missing init_point or id")
	}

	return &Session{URL: raw.InitPoint, SessionID: raw.ID}, nil
}

// PaymentInfo is the provider's view of a single payment.
type PaymentInfo struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
}

// GetPayment fetches a payment by id for webhook reconciliation.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, respBody)
	}

	var info struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		StatusDetail      string      `json:"status_detail"`
		ExternalReference string      `json:"external_reference"`
	}
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	return &PaymentInfo{
		ID:                info.ID.String(),
		Status:            info.Status,
		StatusDetail:      info.StatusDetail,
		ExternalReference: info.ExternalReference,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the provider
// sends with webhook deliveries. With no secret configured verification
// is skipped, which is only acceptable in development.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	if c.secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
