// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a hardware category (cpu, motherboard, ram, ...).
// Identified by unique slug; read-only from the storefront side.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description,omitempty"`
	Icon        string         `gorm:"size:100" json:"icon,omitempty"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product represents a sellable hardware component.
// Price is in minor currency units (centavos). Specifications carries
// free-form technical attributes; the "socket" key drives the
// CPU/motherboard compatibility check in the builder.
type Product struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	CategoryID     uint              `gorm:"not null;index" json:"category_id"`
	Brand          string            `gorm:"not null;size:100" json:"brand"`
	Model          string            `gorm:"not null;size:255" json:"model"`
	Name           string            `gorm:"not null;size:255" json:"name"`
	Description    string            `gorm:"type:text" json:"description"`
	Price          int64             `gorm:"not null;check:price >= 0" json:"price"`
	Stock          int               `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ImageURL       string            `gorm:"size:500" json:"image_url"`
	Specifications map[string]string `gorm:"serializer:json" json:"specifications"`
	IsActive       bool              `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// TableName overrides
func (Category) TableName() string { return "categories" }
func (Product) TableName() string  { return "products" }

// Socket returns the socket specification, empty when not declared.
func (p *Product) Socket() string {
	return p.Specifications["socket"]
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
