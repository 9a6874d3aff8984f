// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/checkout"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the checkout flow: session creation, the
// browser return from the provider, and webhook notifications.
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSession handles POST /checkout/session
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var customer checkout.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	session, o, err := h.checkoutService.CreateSession(c.Request.Context(), sessionID, customer)
	if errors.Is(err, checkout.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("checkout session creation failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "no se pudo iniciar el pago, intentá de nuevo",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"url":        session.URL,
			"session_id": session.SessionID,
			"order":      o.OrderNumber,
		},
	})
}

// HandleReturn handles GET /checkout/result with the provider's
// redirect parameters.
func (h *CheckoutHandler) HandleReturn(c *gin.Context) {
	var params checkout.ReturnParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "parámetros inválidos",
		})
		return
	}

	result, err := h.checkoutService.HandleReturn(c.Request.Context(), params)
	if err != nil {
		logrus.WithError(err).Warn("checkout return could not be processed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "no se pudo verificar el pago",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// HandleWebhook handles POST /webhooks/payment. The provider expects
// a 2xx quickly; processing errors are logged and answered with the
// appropriate status so it retries.
func (h *CheckoutHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	signature := c.GetHeader("X-Signature")
	result, err := h.checkoutService.HandleWebhook(c.Request.Context(), body, signature)
	if err != nil {
		logrus.WithError(err).Warn("webhook rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook rejected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
