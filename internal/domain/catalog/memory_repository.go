// internal/domain/catalog/memory_repository.go
package catalog

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory catalog source. It backs tests and
// local development without postgres.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories []Category
	products   []Product

	// Err, when set, is returned by every read. Used to simulate a
	// failing remote catalog.
	Err error
}

// NewMemoryRepository creates an empty in-memory catalog repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Seed replaces the stored categories and products.
func (r *MemoryRepository) Seed(categories []Category, products []Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = categories
	r.products = products
}

// SetStock overwrites one product's stock.
func (r *MemoryRepository) SetStock(productID uint, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == productID {
			r.products[i].Stock = stock
			return
		}
	}
}

// RemoveProduct deletes a product, simulating removal from the remote catalog.
func (r *MemoryRepository) RemoveProduct(productID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == productID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return
		}
	}
}

func (r *MemoryRepository) ListCategories(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *MemoryRepository) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.categories {
		if c.Slug == slug {
			category := c
			return &category, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListProducts(ctx context.Context, categoryID uint) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []Product
	for _, p := range r.products {
		if categoryID == 0 || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ProductByID(ctx context.Context, id uint) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, p := range r.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}
