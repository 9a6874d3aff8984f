// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/config"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/cart"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/order"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/payment"
)

// ErrEmptyCart is returned when checkout starts with nothing to buy.
var ErrEmptyCart = errors.New("el carrito está vacío")

// PaymentClient is the slice of the provider client the orchestrator
// needs. *payment.Client satisfies it; tests swap in fakes.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
	GetPayment(ctx context.Context, paymentID string) (*payment.PaymentInfo, error)
	VerifyWebhookSignature(body []byte, signature string) bool
}

// Customer carries buyer details into the checkout session.
type Customer struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// ReturnParams are the query parameters the provider appends when it
// redirects the buyer back to the store.
type ReturnParams struct {
	PaymentID         string `form:"payment_id"`
	Status            string `form:"status"`
	StatusDetail      string `form:"status_detail"`
	ExternalReference string `form:"external_reference"`
}

// Result is the outcome of a completed return or webhook flow.
type Result struct {
	State string       `json:"state"` // success | error
	Order *order.Order `json:"order,omitempty"`
}

// Service drives checkout: it freezes the cart into an order, creates
// the provider session, and reconciles the payment outcome. The cart
// is only ever cleared once the provider reports an approved payment.
type Service struct {
	cart     *cart.Service
	orders   order.Repository
	payments PaymentClient
	cfg      config.PaymentConfig
}

// NewService wires the checkout orchestrator.
func NewService(cartSvc *cart.Service, orders order.Repository, payments PaymentClient, cfg config.PaymentConfig) *Service {
	return &Service{
		cart:     cartSvc,
		orders:   orders,
		payments: payments,
		cfg:      cfg,
	}
}

// BuildLineItems converts the resolved cart into provider line items.
func BuildLineItems(c *cart.Cart) []payment.LineItem {
	items := make([]payment.LineItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, payment.LineItem{
			ProductID: line.Product.ID,
			Title:     line.Product.Name,
			UnitPrice: line.Product.Price,
			Quantity:  line.Quantity,
			ImageURL:  line.Product.ImageURL,
		})
	}
	return items
}

// CreateSession starts a checkout for the given cart session. It
// records a pending order, asks the provider for a hosted session and
// returns the redirect URL. A provider failure leaves both the cart
// and the stored cart lines untouched so the buyer can retry.
func (s *Service) CreateSession(ctx context.Context, sessionID string, customer Customer) (*payment.Session, *order.Order, error) {
	c, err := s.cart.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	orderNumber := "EDM-" + strings.ToUpper(uuid.New().String()[:8])
	o := &order.Order{
		OrderNumber: orderNumber,
		SessionID:   sessionID,
		Email:       customer.Email,
		Name:        customer.Name,
		Status:      order.StatusPending,
		Currency:    s.cfg.Currency,
		TotalAmount: c.Totals.TotalPrice,
	}
	for _, line := range c.Items {
		o.Items = append(o.Items, order.Item{
			ProductID:  line.Product.ID,
			Name:       line.Product.Name,
			UnitPrice:  line.Product.Price,
			Quantity:   line.Quantity,
			TotalPrice: line.Product.Price * int64(line.Quantity),
			ImageURL:   line.Product.ImageURL,
		})
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	session, err := s.payments.CreateCheckoutSession(ctx, payment.SessionRequest{
		Items:             BuildLineItems(c),
		Customer:          payment.CustomerData{Email: customer.Email, Name: customer.Name},
		SuccessURL:        s.cfg.SuccessURL,
		CancelURL:         s.cfg.CancelURL,
		ExternalReference: orderNumber,
		Currency:          s.cfg.Currency,
		Metadata:          map[string]string{"session_id": sessionID},
	})
	if err != nil {
		o.Status = order.StatusCancelled
		o.StatusDetail = "session_creation_failed"
		if uerr := s.orders.Update(ctx, o); uerr != nil {
			logrus.WithError(uerr).WithField("order", orderNumber).
				Error("failed to cancel order after provider error")
		}
		return nil, nil, fmt.Errorf("create checkout session: %w", err)
	}

	o.PreferenceID = session.SessionID
	if err := s.orders.Update(ctx, o); err != nil {
		logrus.WithError(err).WithField("order", orderNumber).
			Error("failed to record preference id")
	}

	return session, o, nil
}

// HandleReturn processes the redirect back from the provider. On an
// approved payment the order is marked paid and the cart is cleared;
// any other status keeps the cart intact so the buyer can retry.
func (s *Service) HandleReturn(ctx context.Context, params ReturnParams) (*Result, error) {
	if params.ExternalReference == "" {
		return nil, errors.New("missing external_reference")
	}
	o, err := s.orders.ByOrderNumber(ctx, params.ExternalReference)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	return s.applyOutcome(ctx, o, params.PaymentID, params.Status, params.StatusDetail)
}

// webhookEvent is MercadoPago's notification envelope.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandleWebhook processes an asynchronous payment notification. The
// payment is always re-fetched from the provider rather than trusted
// from the notification body.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) (*Result, error) {
	if !s.payments.VerifyWebhookSignature(body, signature) {
		return nil, errors.New("invalid webhook signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	if event.Type != "payment" || event.Data.ID == "" {
		// Not a payment event; acknowledge without acting.
		return &Result{State: "success"}, nil
	}

	info, err := s.payments.GetPayment(ctx, event.Data.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch payment: %w", err)
	}
	o, err := s.orders.ByOrderNumber(ctx, info.ExternalReference)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	return s.applyOutcome(ctx, o, info.ID, info.Status, info.StatusDetail)
}

// applyOutcome records the provider's verdict on the order and clears
// the cart when, and only when, the payment is approved.
func (s *Service) applyOutcome(ctx context.Context, o *order.Order, paymentID, status, detail string) (*Result, error) {
	if o.IsPaid() {
		// Already reconciled, likely webhook and return racing.
		return &Result{State: "success", Order: o}, nil
	}

	o.PaymentID = paymentID
	o.StatusDetail = detail

	switch status {
	case "approved":
		now := time.Now()
		o.Status = order.StatusApproved
		o.PaidAt = &now
	case "rejected", "cancelled":
		o.Status = order.StatusRejected
	default:
		o.Status = order.StatusPending
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if o.Status == order.StatusApproved {
		if err := s.cart.ClearCart(ctx, o.SessionID); err != nil {
			logrus.WithError(err).WithField("order", o.OrderNumber).
				Error("failed to clear cart after approved payment")
		}
		logrus.WithFields(logrus.Fields{
			"order":      o.OrderNumber,
			"payment_id": paymentID,
		}).Info("payment approved")
		return &Result{State: "success", Order: o}, nil
	}

	return &Result{State: "error", Order: o}, nil
}
