// internal/domain/order/entity.go
package order

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the order status through the checkout flow.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Order is one checkout attempt. OrderNumber doubles as the
// external_reference sent to the payment provider, which is how the
// return flow and the webhook find the order again.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	SessionID   string `gorm:"not null;index;size:64" json:"session_id"`
	UserID      *uint  `gorm:"index" json:"user_id"`
	Email       string `gorm:"size:255" json:"email"`
	Name        string `gorm:"size:255" json:"name"`

	Status       Status `gorm:"not null;default:'pending';index" json:"status"`
	StatusDetail string `gorm:"size:100" json:"status_detail"`
	PaymentID    string `gorm:"size:100;index" json:"payment_id"`
	PreferenceID string `gorm:"size:100" json:"preference_id"`

	Currency    string `gorm:"size:3;default:'ARS'" json:"currency"`
	TotalAmount int64  `gorm:"not null" json:"total_amount"` // minor units

	PaidAt    *time.Time     `json:"paid_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Item is one purchased line frozen at checkout time.
type Item struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	ImageURL   string    `gorm:"size:500" json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string { return "orders" }
func (Item) TableName() string  { return "order_items" }

// IsPaid reports whether the provider approved the payment.
func (o *Order) IsPaid() bool {
	return o.Status == StatusApproved
}
