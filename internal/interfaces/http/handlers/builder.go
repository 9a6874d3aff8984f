// internal/interfaces/http/handlers/builder.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/builder"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
)

// BuilderHandler handles the PC builder endpoints.
type BuilderHandler struct {
	builderService *builder.Service
}

// NewBuilderHandler creates a new builder handler.
func NewBuilderHandler(builderService *builder.Service) *BuilderHandler {
	return &BuilderHandler{builderService: builderService}
}

type selectComponentRequest struct {
	Category  string `json:"category" binding:"required"`
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type adjustQuantityRequest struct {
	Category string `json:"category" binding:"required"`
}

// GetRestrictions handles GET /builder/restrictions
func (h *BuilderHandler) GetRestrictions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": builder.Restrictions,
	})
}

// GetState handles GET /builder
func (h *BuilderHandler) GetState(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	c.JSON(http.StatusOK, gin.H{
		"data": h.builderService.State(sessionID),
	})
}

// SelectComponent handles POST /builder/components
func (h *BuilderHandler) SelectComponent(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req selectComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	state, err := h.builderService.SelectComponent(c.Request.Context(), sessionID, req.Category, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// IncreaseQuantity handles POST /builder/components/increase
func (h *BuilderHandler) IncreaseQuantity(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	state, err := h.builderService.IncreaseQuantity(c.Request.Context(), sessionID, req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// DecreaseQuantity handles POST /builder/components/decrease
func (h *BuilderHandler) DecreaseQuantity(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	state, err := h.builderService.DecreaseQuantity(sessionID, req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// Commit handles POST /builder/commit. Validation failures come back
// in the state payload, not as HTTP errors.
func (h *BuilderHandler) Commit(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	state, err := h.builderService.CommitToCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo agregar el armado al carrito",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// Clear handles DELETE /builder
func (h *BuilderHandler) Clear(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	h.builderService.Clear(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "selección reiniciada",
	})
}
