// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no order matches the lookup.
var ErrNotFound = errors.New("order not found")

// Repository persists checkout orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	ByOrderNumber(ctx context.Context, number string) (*Order, error)
	ByPaymentID(ctx context.Context, paymentID string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
	ListByUser(ctx context.Context, userID uint) ([]Order, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns the postgres-backed order repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *gormRepository) Update(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *gormRepository) ByOrderNumber(ctx context.Context, number string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", number).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) ByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_id = ?", paymentID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
