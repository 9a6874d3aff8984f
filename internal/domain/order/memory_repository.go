// internal/domain/order/memory_repository.go
package order

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and local
// development without postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID uint
	orders map[string]*Order // keyed by OrderNumber
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]*Order)}
}

func (r *MemoryRepository) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	cp := *o
	r.orders[o.OrderNumber] = &cp
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.OrderNumber] = &cp
	return nil
}

func (r *MemoryRepository) ByOrderNumber(_ context.Context, number string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[number]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryRepository) ByPaymentID(_ context.Context, paymentID string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.PaymentID == paymentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListBySession(_ context.Context, sessionID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Order
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID uint) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}
