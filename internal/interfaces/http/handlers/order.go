// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/order"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/pkg/pdf"
)

// OrderHandler exposes order history and invoices. Guests see the
// orders of their cart session; logged-in users see theirs.
type OrderHandler struct {
	orders     order.Repository
	pdfService *pdf.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders order.Repository, pdfService *pdf.Service) *OrderHandler {
	return &OrderHandler{orders: orders, pdfService: pdfService}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var (
		list []order.Order
		err  error
	)
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		list, err = h.orders.ListByUser(c.Request.Context(), userID)
	} else {
		list, err = h.orders.ListBySession(c.Request.Context(), middleware.GetSessionID(c))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudieron cargar los pedidos",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GetOrder handles GET /orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.findAuthorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

// DownloadInvoice handles GET /orders/:number/invoice
func (h *OrderHandler) DownloadInvoice(c *gin.Context) {
	o, ok := h.findAuthorized(c)
	if !ok {
		return
	}
	if !o.IsPaid() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "el pedido todavía no está pagado",
		})
		return
	}

	buf, err := h.pdfService.GenerateInvoice(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo generar la factura",
		})
		return
	}

	filename := fmt.Sprintf("factura-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// findAuthorized loads the order and checks the caller may see it.
func (h *OrderHandler) findAuthorized(c *gin.Context) (*order.Order, bool) {
	o, err := h.orders.ByOrderNumber(c.Request.Context(), c.Param("number"))
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "pedido no encontrado",
		})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo cargar el pedido",
		})
		return nil, false
	}

	if middleware.IsAdminFromContext(c) {
		return o, true
	}
	if userID, ok := middleware.GetUserIDFromContext(c); ok && o.UserID != nil && *o.UserID == userID {
		return o, true
	}
	if o.SessionID == middleware.GetSessionID(c) {
		return o, true
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": "pedido no encontrado",
	})
	return nil, false
}
