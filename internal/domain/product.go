package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Discount    float64   `json:"discount" db:"discount"`
	Stock       int       `json:"stock" db:"stock"`
	ImageURL    *string   `json:"imageUrl" db:"image_url"`
	CategoryID  uuid.UUID `json:"categoryId" db:"category_id"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// FinalPrice returns the effective price after applying the discount
// percentage. Derived on read, never stored.
func (p *Product) FinalPrice() float64 {
	return p.Price * (1 - p.Discount/100)
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
