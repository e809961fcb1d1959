package domain

import "time"

const EventProductCreated = "ProductCreated"

type ProductCreatedEvent struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     Money     `json:"price_minor"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
