// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/config"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/cart"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/order"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/payment"
)

const session = "sess-1"

// fakePaymentClient records the last session request and returns a
// canned answer or error.
type fakePaymentClient struct {
	lastRequest *payment.SessionRequest
	session     *payment.Session
	createErr   error

	payments map[string]*payment.PaymentInfo

	validSignature bool
}

func (f *fakePaymentClient) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.lastRequest = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session, nil
}

func (f *fakePaymentClient) GetPayment(_ context.Context, paymentID string) (*payment.PaymentInfo, error) {
	info, ok := f.payments[paymentID]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return info, nil
}

func (f *fakePaymentClient) VerifyWebhookSignature(_ []byte, _ string) bool {
	return f.validSignature
}

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		SuccessURL: "http://localhost/checkout/success",
		CancelURL:  "http://localhost/checkout/failure",
		Currency:   "ARS",
	}
}

func newTestCheckout(client *fakePaymentClient) (*Service, *cart.Service, *order.MemoryRepository) {
	repo := catalog.NewMemoryRepository()
	repo.Seed(nil, []catalog.Product{
		{ID: 10, Name: "AMD Ryzen 7 7800X3D", Price: 52999900, Stock: 5, IsActive: true},
		{ID: 70, Name: "Samsung 980 Pro 1TB", Price: 12999900, Stock: 8, IsActive: true},
	})
	cartService := cart.NewService(catalog.NewStore(repo, 0), cart.NewMemoryPersistence())
	orders := order.NewMemoryRepository()
	return NewService(cartService, orders, client, testPaymentConfig()), cartService, orders
}

func fillCart(t *testing.T, cartService *cart.Service) {
	t.Helper()
	ctx := context.Background()
	_, err := cartService.AddToCart(ctx, session, 10, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(ctx, session, 70, 2)
	require.NoError(t, err)
}

func TestCreateSessionEmptyCart(t *testing.T) {
	svc, _, _ := newTestCheckout(&fakePaymentClient{})

	_, _, err := svc.CreateSession(context.Background(), session, Customer{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateSessionBuildsProviderRequest(t *testing.T) {
	client := &fakePaymentClient{
		session: &payment.Session{URL: "https://pago.example/init", SessionID: "pref-1"},
	}
	svc, cartService, orders := newTestCheckout(client)
	fillCart(t, cartService)

	sess, o, err := svc.CreateSession(context.Background(), session, Customer{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "https://pago.example/init", sess.URL)
	assert.Equal(t, "pref-1", sess.SessionID)

	req := client.lastRequest
	require.NotNil(t, req)
	require.Len(t, req.Items, 2)
	assert.Equal(t, "AMD Ryzen 7 7800X3D", req.Items[0].Title)
	assert.Equal(t, int64(52999900), req.Items[0].UnitPrice)
	assert.Equal(t, 2, req.Items[1].Quantity)
	assert.Equal(t, "ana@example.com", req.Customer.Email)
	assert.Equal(t, o.OrderNumber, req.ExternalReference)
	assert.Equal(t, "ARS", req.Currency)

	// A pending order with frozen line items was stored.
	stored, err := orders.ByOrderNumber(context.Background(), o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status)
	assert.Equal(t, int64(52999900+2*12999900), stored.TotalAmount)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "pref-1", stored.PreferenceID)
}

func TestCreateSessionProviderFailureLeavesCartUntouched(t *testing.T) {
	client := &fakePaymentClient{createErr: errors.New("payment provider returned 400: bad request")}
	svc, cartService, _ := newTestCheckout(client)
	fillCart(t, cartService)

	_, _, err := svc.CreateSession(context.Background(), session, Customer{Email: "ana@example.com"})
	require.Error(t, err)

	c, err := cartService.LoadCart(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2, "a failed session must not consume the cart")
}

func TestHandleReturnApprovedClearsCart(t *testing.T) {
	client := &fakePaymentClient{
		session: &payment.Session{URL: "https://pago.example/init", SessionID: "pref-1"},
	}
	svc, cartService, orders := newTestCheckout(client)
	fillCart(t, cartService)
	ctx := context.Background()

	_, o, err := svc.CreateSession(ctx, session, Customer{Email: "ana@example.com"})
	require.NoError(t, err)

	result, err := svc.HandleReturn(ctx, ReturnParams{
		PaymentID:         "pay-77",
		Status:            "approved",
		StatusDetail:      "accredited",
		ExternalReference: o.OrderNumber,
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result.State)

	stored, err := orders.ByOrderNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, stored.Status)
	assert.Equal(t, "pay-77", stored.PaymentID)
	assert.NotNil(t, stored.PaidAt)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items, "an approved payment clears the cart")
}

func TestHandleReturnRejectedKeepsCart(t *testing.T) {
	client := &fakePaymentClient{
		session: &payment.Session{URL: "https://pago.example/init", SessionID: "pref-1"},
	}
	svc, cartService, _ := newTestCheckout(client)
	fillCart(t, cartService)
	ctx := context.Background()

	_, o, err := svc.CreateSession(ctx, session, Customer{Email: "ana@example.com"})
	require.NoError(t, err)

	result, err := svc.HandleReturn(ctx, ReturnParams{
		PaymentID:         "pay-78",
		Status:            "rejected",
		StatusDetail:      "cc_rejected_insufficient_amount",
		ExternalReference: o.OrderNumber,
	})
	require.NoError(t, err)
	assert.Equal(t, "error", result.State)
	assert.Equal(t, order.StatusRejected, result.Order.Status)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2, "a rejected payment must keep the cart for retry")
}

func TestHandleReturnUnknownOrder(t *testing.T) {
	svc, _, _ := newTestCheckout(&fakePaymentClient{})

	_, err := svc.HandleReturn(context.Background(), ReturnParams{
		Status:            "approved",
		ExternalReference: "EDM-NOPE",
	})
	assert.Error(t, err)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, _, _ := newTestCheckout(&fakePaymentClient{validSignature: false})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{"type":"payment"}`), "bad")
	assert.Error(t, err)
}

func TestHandleWebhookApprovesOrder(t *testing.T) {
	client := &fakePaymentClient{
		session:        &payment.Session{URL: "https://pago.example/init", SessionID: "pref-1"},
		validSignature: true,
		payments:       map[string]*payment.PaymentInfo{},
	}
	svc, cartService, orders := newTestCheckout(client)
	fillCart(t, cartService)
	ctx := context.Background()

	_, o, err := svc.CreateSession(ctx, session, Customer{Email: "ana@example.com"})
	require.NoError(t, err)

	client.payments["pay-99"] = &payment.PaymentInfo{
		ID:                "pay-99",
		Status:            "approved",
		StatusDetail:      "accredited",
		ExternalReference: o.OrderNumber,
	}

	result, err := svc.HandleWebhook(ctx, []byte(`{"type":"payment","data":{"id":"pay-99"}}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, "success", result.State)

	stored, err := orders.ByOrderNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, stored.Status)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestHandleWebhookIgnoresNonPaymentEvents(t *testing.T) {
	svc, _, _ := newTestCheckout(&fakePaymentClient{validSignature: true})

	result, err := svc.HandleWebhook(context.Background(), []byte(`{"type":"plan","data":{"id":"x"}}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, "success", result.State)
	assert.Nil(t, result.Order)
}
