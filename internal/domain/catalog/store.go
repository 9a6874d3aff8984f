// internal/domain/catalog/store.go
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Store holds the current catalog snapshot: the category list, the
// product list for the selected category, and a read-through product
// index used to resolve cart lines. A failed load keeps the previous
// snapshot and records the error message instead of clearing state.
type Store struct {
	repo     Repository
	debounce time.Duration

	mu           sync.Mutex
	categories   []Category
	products     []Product
	index        map[uint]Product
	selectedSlug string
	searchTerm   string
	loading      bool
	lastErr      string
	loadSeq      uint64
	lastLoaded   time.Time
	loadedOnce   bool
	indexFull    bool
}

// NewStore creates a catalog store. debounce is the window within
// which a repeat load of the already-selected category is coalesced.
func NewStore(repo Repository, debounce time.Duration) *Store {
	return &Store{
		repo:     repo,
		debounce: debounce,
		index:    make(map[uint]Product),
	}
}

// LoadCategories fetches all categories. On failure the previous
// category list is kept and the error is recorded.
func (s *Store) LoadCategories(ctx context.Context) error {
	categories, err := s.repo.ListCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "no se pudieron cargar las categorías"
		return err
	}
	s.categories = categories
	s.lastErr = ""
	return nil
}

// LoadProducts fetches active products, optionally filtered to one
// category slug (empty slug means all). Each load is tagged with a
// sequence number; a response that arrives after a newer load started
// is discarded so a stale slow response never overwrites fresher data.
func (s *Store) LoadProducts(ctx context.Context, slug string) error {
	s.mu.Lock()
	if s.loadedOnce && s.lastErr == "" && s.selectedSlug == slug && time.Since(s.lastLoaded) < s.debounce {
		s.mu.Unlock()
		return nil
	}
	s.loadSeq++
	seq := s.loadSeq
	s.selectedSlug = slug
	s.loading = true
	s.mu.Unlock()

	var categoryID uint
	if slug != "" {
		category, err := s.repo.CategoryBySlug(ctx, slug)
		if err != nil {
			return s.finishLoad(seq, nil, false, err)
		}
		categoryID = category.ID
	}

	products, err := s.repo.ListProducts(ctx, categoryID)
	return s.finishLoad(seq, products, slug == "", err)
}

// EnsureLoaded guarantees the product index covers the full catalog.
// Cart resolution calls this before joining stored lines.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	if s.indexFull {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	products, err := s.repo.ListProducts(ctx, 0)
	if err != nil {
		s.mu.Lock()
		s.lastErr = "no se pudieron cargar los productos"
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.index[p.ID] = p
	}
	s.indexFull = true
	if !s.loadedOnce {
		s.products = products
		s.loadedOnce = true
		s.lastLoaded = time.Now()
	}
	s.lastErr = ""
	return nil
}

func (s *Store) finishLoad(seq uint64, products []Product, fullSet bool, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		// A newer load superseded this one; drop the result.
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = "no se pudieron cargar los productos"
		return err
	}

	s.products = products
	for _, p := range products {
		s.index[p.ID] = p
	}
	if fullSet {
		s.indexFull = true
	}
	s.loadedOnce = true
	s.lastLoaded = time.Now()
	s.lastErr = ""
	return nil
}

// SetSearchTerm stores the case-insensitive substring filter.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = strings.TrimSpace(term)
}

// FilteredProducts returns the loaded products matching the current
// search term over name, brand, model and description. With no term it
// returns the full loaded list.
func (s *Store) FilteredProducts() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchTerm == "" {
		out := make([]Product, len(s.products))
		copy(out, s.products)
		return out
	}

	term := strings.ToLower(s.searchTerm)
	var out []Product
	for _, p := range s.products {
		if containsFold(p.Name, term) ||
			containsFold(p.Brand, term) ||
			containsFold(p.Model, term) ||
			containsFold(p.Description, term) {
			out = append(out, p)
		}
	}
	return out
}

// ProductByID resolves a product from the snapshot index, falling back
// to a single repository fetch on a miss (read-through).
func (s *Store) ProductByID(ctx context.Context, id uint) (*Product, error) {
	s.mu.Lock()
	if p, ok := s.index[id]; ok {
		s.mu.Unlock()
		product := p
		return &product, nil
	}
	full := s.indexFull
	s.mu.Unlock()

	if full {
		// Index covers the whole catalog; the product does not exist.
		return nil, ErrNotFound
	}

	product, err := s.repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.mu.Lock()
	s.index[product.ID] = *product
	s.mu.Unlock()
	return product, nil
}

// Invalidate drops the snapshot so the next read refetches. Called
// after admin catalog mutations.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[uint]Product)
	s.products = nil
	s.indexFull = false
	s.loadedOnce = false
}

// Categories returns the loaded category list.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// SelectedCategory returns the slug the current product list was loaded for.
func (s *Store) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSlug
}

// SearchTerm returns the active search filter.
func (s *Store) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTerm
}

// LastError returns the recorded error message, empty when healthy.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether a product load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
