// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
	"github.com/sirupsen/logrus"
)

// Service handles cart business logic. Carts are keyed by a session id
// and every mutation persists the stored representation immediately,
// keeping memory and storage consistent.
type Service struct {
	catalog     *catalog.Store
	persistence Persistence
}

// NewService creates a new cart service
func NewService(catalogStore *catalog.Store, persistence Persistence) *Service {
	return &Service{
		catalog:     catalogStore,
		persistence: persistence,
	}
}

// LoadCart reads the persisted lines and resolves each against the
// catalog, loading products first if the catalog snapshot is empty.
// Lines whose product no longer resolves are dropped silently and not
// re-persisted.
func (s *Service) LoadCart(ctx context.Context, sessionID string) (*Cart, error) {
	lines, err := s.persistence.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("failed to load catalog for cart resolution: %w", err)
	}

	resolved, kept, err := s.resolveLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	if len(kept) != len(lines) {
		if err := s.persistence.Save(ctx, sessionID, kept); err != nil {
			return nil, err
		}
	}

	return s.buildCart(sessionID, resolved), nil
}

// AddToCart increments the quantity of an existing line or appends a
// new one. An unknown product id is a no-op with a warning.
func (s *Service) AddToCart(ctx context.Context, sessionID string, productID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	if _, err := s.catalog.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			logrus.WithFields(logrus.Fields{
				"session_id": sessionID,
				"product_id": productID,
			}).Warn("add to cart ignored: product not in catalog")
			return s.LoadCart(ctx, sessionID)
		}
		return nil, err
	}

	lines, err := s.persistence.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines = upsertLine(lines, productID, quantity)
	if err := s.persistence.Save(ctx, sessionID, lines); err != nil {
		return nil, err
	}

	return s.LoadCart(ctx, sessionID)
}

// UpdateQuantity overwrites a line's quantity; zero or less removes
// the line. Stock is deliberately not re-validated here: callers such
// as the builder and checkout validate against stock at their own
// boundary, and failing a plain cart edit on stock drift would turn an
// integrity anomaly into a user-facing error.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID uint, quantity int) (*Cart, error) {
	lines, err := s.persistence.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines = setQuantity(lines, productID, quantity)
	if err := s.persistence.Save(ctx, sessionID, lines); err != nil {
		return nil, err
	}

	return s.LoadCart(ctx, sessionID)
}

// RemoveFromCart removes the line for productID.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, productID uint) (*Cart, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// ClearCart empties and persists the cart.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.persistence.Delete(ctx, sessionID)
}

// TotalPrice returns the sum of price*quantity over the resolved cart.
func (s *Service) TotalPrice(ctx context.Context, sessionID string) (int64, error) {
	cart, err := s.LoadCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Totals.TotalPrice, nil
}

// TotalItemCount returns the sum of quantities over the resolved cart.
func (s *Service) TotalItemCount(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.LoadCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Totals.TotalQuantity, nil
}

// resolveLines joins stored lines against the catalog. Unresolvable or
// non-positive lines are dropped; any other catalog failure aborts.
func (s *Service) resolveLines(ctx context.Context, lines []StoredLine) ([]ResolvedLine, []StoredLine, error) {
	resolved := make([]ResolvedLine, 0, len(lines))
	kept := make([]StoredLine, 0, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		product, err := s.catalog.ProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		resolved = append(resolved, ResolvedLine{Product: *product, Quantity: line.Quantity})
		kept = append(kept, line)
	}

	return resolved, kept, nil
}

func (s *Service) buildCart(sessionID string, items []ResolvedLine) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     items,
		Totals:    calculateTotals(items),
	}
}
