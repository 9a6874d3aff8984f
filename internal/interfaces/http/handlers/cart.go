// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/cart"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints. The cart is keyed by the session
// cookie, so everything here works for guests.
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	cartResponse, err := h.cartService.LoadCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo cargar el carrito",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cartResponse})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.AddToCart(c.Request.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo agregar al carrito",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cartResponse})
}

// UpdateQuantity handles PUT /cart/items/:productId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id de producto inválido",
		})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID, uint(productID), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo actualizar el carrito",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cartResponse})
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id de producto inválido",
		})
		return
	}

	cartResponse, err := h.cartService.RemoveFromCart(c.Request.Context(), sessionID, uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo actualizar el carrito",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cartResponse})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	if err := h.cartService.ClearCart(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo vaciar el carrito",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "carrito vaciado",
	})
}
