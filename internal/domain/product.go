package domain

import (
	"fmt"
	"time"
)

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

// Product is immutable once it enters the catalog. Price is kept in minor
// units (paise) so cart totals are exact.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       Money     `json:"price_minor"`
	Stock       int64     `json:"stock"`
	ImageUrl    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Upper bounds for submitted products. A full line of the dearest product
// stays far below the Money range.
const (
	MaxPrice Money = 10_000_000_00
	MaxStock int64 = 1_000_000
)

// NewProductInput is what the add-product form hands over once validated.
type NewProductInput struct {
	Name        string
	Description string
	Category    string
	Price       Money
	Stock       int64
	ImageUrl    string
}

// CartItem is the persisted shape of a cart line.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Validate enforces positive price and stock within MaxPrice and MaxStock.
func (in NewProductInput) Validate() error {
	if in.Price <= 0 || in.Price > MaxPrice {
		return fmt.Errorf("price %s: %w", in.Price, ErrInvalidProduct)
	}
	if in.Stock <= 0 || in.Stock > MaxStock {
		return fmt.Errorf("stock %d: %w", in.Stock, ErrInvalidProduct)
	}
	return nil
}
