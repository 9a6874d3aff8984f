// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service handles admin-side catalog management. Every mutation writes
// an admin log row and invalidates the storefront snapshot.
type Service struct {
	db    *gorm.DB
	store *Store
}

// NewService creates a new catalog management service
func NewService(db *gorm.DB, store *Store) *Service {
	return &Service{db: db, store: store}
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	CategoryID     uint              `json:"category_id" binding:"required"`
	Brand          string            `json:"brand" binding:"required"`
	Model          string            `json:"model" binding:"required"`
	Name           string            `json:"name" binding:"required"`
	Description    string            `json:"description"`
	Price          int64             `json:"price" binding:"required,min=0"`
	Stock          int               `json:"stock" binding:"min=0"`
	ImageURL       string            `json:"image_url"`
	Specifications map[string]string `json:"specifications"`
	IsActive       *bool             `json:"is_active"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	CategoryID     *uint              `json:"category_id"`
	Brand          *string            `json:"brand"`
	Model          *string            `json:"model"`
	Name           *string            `json:"name"`
	Description    *string            `json:"description"`
	Price          *int64             `json:"price"`
	Stock          *int               `json:"stock"`
	ImageURL       *string            `json:"image_url"`
	Specifications *map[string]string `json:"specifications"`
	IsActive       *bool              `json:"is_active"`
}

// CategoryRequest represents category creation/update data
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(adminID uint, req *ProductCreateRequest) (*Product, error) {
	var category Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d does not exist", req.CategoryID)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := Product{
		CategoryID:     req.CategoryID,
		Brand:          req.Brand,
		Model:          req.Model,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		ImageURL:       req.ImageURL,
		Specifications: req.Specifications,
		IsActive:       active,
	}
	if product.Specifications == nil {
		product.Specifications = map[string]string{}
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(&product, product.ID)
	s.logAction(adminID, "create", "product", product.ID, product.Name)
	s.store.Invalidate()

	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(adminID, id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	updates := make(map[string]interface{})
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Specifications != nil {
		product.Specifications = *req.Specifications
		if err := s.db.Model(&product).Update("specifications", product.Specifications).Error; err != nil {
			return nil, fmt.Errorf("failed to update specifications: %w", err)
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Category").First(&product, product.ID)
	s.logAction(adminID, "update", "product", product.ID, product.Name)
	s.store.Invalidate()

	return &product, nil
}

// DeleteProduct soft deletes a product
func (s *Service) DeleteProduct(adminID, id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logAction(adminID, "delete", "product", id, "")
	s.store.Invalidate()
	return nil
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(adminID uint, req *CategoryRequest) (*Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = generateSlug(req.Name)
	}

	var existing Category
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("category with slug %q already exists", slug)
	}

	category := Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logAction(adminID, "create", "category", category.ID, category.Name)
	s.store.Invalidate()
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *Service) UpdateCategory(adminID, id uint, req *CategoryRequest) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	category.Name = req.Name
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	category.Description = req.Description
	category.Icon = req.Icon
	category.SortOrder = req.SortOrder

	if err := s.db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logAction(adminID, "update", "category", category.ID, category.Name)
	s.store.Invalidate()
	return &category, nil
}

// DeleteCategory soft deletes a category with no active products
func (s *Service) DeleteCategory(adminID, id uint) error {
	var count int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category has %d products and cannot be deleted", count)
	}

	result := s.db.Delete(&Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logAction(adminID, "delete", "category", id, "")
	s.store.Invalidate()
	return nil
}

func (s *Service) logAction(adminID uint, action, entity string, entityID uint, detail string) {
	entry := user.AdminLog{
		UserID:   adminID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	// Logging must never fail the mutation itself.
	_ = s.db.Create(&entry).Error
}

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	return slug
}
