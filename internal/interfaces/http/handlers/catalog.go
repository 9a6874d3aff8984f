// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
)

// CatalogHandler handles public catalog endpoints.
type CatalogHandler struct {
	store *catalog.Store
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	if err := h.store.LoadCategories(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": h.store.LastError(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.store.Categories(),
	})
}

// GetProducts handles GET /products?category=<slug>&search=<term>
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	slug := c.Query("category")
	if err := h.store.LoadProducts(c.Request.Context(), slug); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": h.store.LastError(),
		})
		return
	}

	h.store.SetSearchTerm(c.Query("search"))

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"category": h.store.SelectedCategory(),
			"search":   h.store.SearchTerm(),
			"products": h.store.FilteredProducts(),
		},
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id de producto inválido",
		})
		return
	}

	product, err := h.store.ProductByID(c.Request.Context(), uint(id))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "producto no encontrado",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no se pudo cargar el producto",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}
