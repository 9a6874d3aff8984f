// internal/domain/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a category or product does not exist.
var ErrNotFound = errors.New("not found in catalog")

// Repository defines read access to the remote catalog tables.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*Category, error)
	// ListProducts returns active products, optionally filtered to one
	// category. categoryID == 0 means all categories.
	ListProducts(ctx context.Context, categoryID uint) ([]Product, error)
	ProductByID(ctx context.Context, id uint) (*Product, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a postgres-backed catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *gormRepository) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %q: %w", slug, err)
	}
	return &category, nil
}

func (r *gormRepository) ListProducts(ctx context.Context, categoryID uint) ([]Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true)

	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *gormRepository) ProductByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return &product, nil
}
