// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
)

// AdminHandler exposes catalog management for administrators. Every
// mutation is recorded in admin_logs by the catalog service.
type AdminHandler struct {
	catalogService *catalog.Service
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(catalogService *catalog.Service) *AdminHandler {
	return &AdminHandler{catalogService: catalogService}
}

func adminID(c *gin.Context) uint {
	id, _ := middleware.GetUserIDFromContext(c)
	return id
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return 0, false
	}
	return uint(id), true
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req catalog.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.CreateProduct(adminID(c), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req catalog.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.UpdateProduct(adminID(c), id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(adminID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "producto eliminado"})
}

// CreateCategory handles POST /admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req catalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	category, err := h.catalogService.CreateCategory(adminID(c), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req catalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "datos inválidos",
			"details": err.Error(),
		})
		return
	}

	category, err := h.catalogService.UpdateCategory(adminID(c), id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(adminID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "categoría eliminada"})
}
