// internal/domain/payment/mercadopago_test.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.PaymentConfig{
		BaseURL:       baseURL,
		AccessToken:   "test-token",
		WebhookSecret: "test-secret",
		Currency:      "ARS",
	})
}

func sampleRequest() SessionRequest {
	return SessionRequest{
		Items: []LineItem{
			{ProductID: 10, Title: "AMD Ryzen 7 7800X3D", UnitPrice: 52999900, Quantity: 1},
		},
		Customer:          CustomerData{Email: "ana@example.com"},
		SuccessURL:        "http://localhost/success",
		CancelURL:         "http://localhost/failure",
		ExternalReference: "EDM-ABC123",
		Currency:          "ARS",
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req SessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "EDM-ABC123", req.ExternalReference)
		require.Len(t, req.Items, 1)
		assert.Equal(t, int64(52999900), req.Items[0].UnitPrice)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":         "pref-123",
			"init_point": "https://pago.example/init/pref-123",
		})
	}))
	defer server.Close()

	session, err := testClient(server.URL).CreateCheckoutSession(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://pago.example/init/pref-123", session.URL)
	assert.Equal(t, "pref-123", session.SessionID)
}

func TestCreateCheckoutSessionNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid items"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateCheckoutSession(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "invalid items")
}

func TestCreateCheckoutSessionMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "pref-123"})
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateCheckoutSession(context.Background(), sampleRequest())
	assert.Error(t, err)
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/12345", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		// The provider answers numeric payment ids.
		_, _ = w.Write([]byte(`{
			"id": 12345,
			"status": "approved",
			"status_detail": "accredited",
			"external_reference": "EDM-ABC123"
		}`))
	}))
	defer server.Close()

	info, err := testClient(server.URL).GetPayment(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", info.ID)
	assert.Equal(t, "approved", info.Status)
	assert.Equal(t, "accredited", info.StatusDetail)
	assert.Equal(t, "EDM-ABC123", info.ExternalReference)
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := testClient("http://unused")
	body := []byte(`{"type":"payment","data":{"id":"12345"}}`)

	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyWebhookSignature(body, valid))
	assert.False(t, client.VerifyWebhookSignature(body, "deadbeef"))
	assert.False(t, client.VerifyWebhookSignature([]byte("tampered"), valid))
}

func TestVerifyWebhookSignatureNoSecret(t *testing.T) {
	client := NewClient(config.PaymentConfig{BaseURL: "http://unused"})

	// Without a configured secret verification is skipped.
	assert.True(t, client.VerifyWebhookSignature([]byte("anything"), ""))
}
