// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/user"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	userService *user.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(userService *user.Service) *AuthHandler {
	return &AuthHandler{userService: userService}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), req)
	if errors.Is(err, user.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if errors.Is(err, user.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "no se pudo iniciar sesión",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "datos inválidos",
		})
		return
	}

	resp, err := h.userService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "token inválido o expirado",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Profile handles GET /auth/me
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "se requiere autenticación",
		})
		return
	}

	u, err := h.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "usuario no encontrado",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": u})
}
