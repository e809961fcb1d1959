package handler

import (
	"fmt"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/internal/service"
	"github.com/shopspring/decimal"
)

const createdLayout = "January 2, 2006"

type ProductResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	PriceMinor   int64     `json:"price_minor"`
	Price        string    `json:"price"`
	Stock        int64     `json:"stock"`
	InStock      bool      `json:"in_stock"`
	StockLabel   string    `json:"stock_label"`
	ImageUrl     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CreatedLabel string    `json:"created_label"`
}

func stockLabel(stock int64) string {
	if stock > 0 {
		return fmt.Sprintf("%d units in stock", stock)
	}
	return "Out of stock"
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		PriceMinor:   int64(p.Price),
		Price:        p.Price.String(),
		Stock:        p.Stock,
		InStock:      p.InStock(),
		StockLabel:   stockLabel(p.Stock),
		ImageUrl:     p.ImageUrl,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CreatedLabel: p.CreatedAt.Format(createdLayout),
	}
}

func toProductList(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type QuoteResponse struct {
	Product    ProductResponse `json:"product"`
	Quantity   int64           `json:"quantity"`
	TotalMinor int64           `json:"total_minor"`
	Total      string          `json:"total"`
}

func toQuoteResponse(q service.Quote) QuoteResponse {
	return QuoteResponse{
		Product:    toProductResponse(q.Product),
		Quantity:   q.Quantity,
		TotalMinor: int64(q.Total),
		Total:      q.Total.String(),
	}
}

type CartLineResponse struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	ImageUrl   string `json:"image_url,omitempty"`
	PriceMinor int64  `json:"price_minor"`
	Price      string `json:"price"`
	Quantity   int64  `json:"quantity"`
	Stock      int64  `json:"stock"`
	TotalMinor int64  `json:"total_minor"`
	Total      string `json:"total"`
}

type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	UnitCount  int64              `json:"unit_count"`
	TotalMinor int64              `json:"total_minor"`
	Total      string             `json:"total"`
}

func toCartLine(l service.LineView) CartLineResponse {
	return CartLineResponse{
		ProductID:  l.Product.ID,
		Name:       l.Product.Name,
		Category:   l.Product.Category,
		ImageUrl:   l.Product.ImageUrl,
		PriceMinor: int64(l.Product.Price),
		Price:      l.Product.Price.String(),
		Quantity:   l.Quantity,
		Stock:      l.Product.Stock,
		TotalMinor: int64(l.Total),
		Total:      l.Total.String(),
	}
}

func toCartResponse(v service.CartView) CartResponse {
	lines := make([]CartLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, toCartLine(l))
	}

	return CartResponse{
		Lines:      lines,
		UnitCount:  v.UnitCount,
		TotalMinor: int64(v.Total),
		Total:      v.Total.String(),
	}
}

type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,min=3"`
	Description string          `json:"description" validate:"required,min=10"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0,lte=10000000"`
	Category    string          `json:"category" validate:"required"`
	Stock       int64           `json:"stock" validate:"gt=0,lte=1000000"`
	ImageUrl    string          `json:"image_url" validate:"omitempty,url"`
}

func (in *CreateProductInput) toDomain() (domain.NewProductInput, error) {
	price, err := domain.MoneyFromDecimal(in.Price)
	if err != nil {
		return domain.NewProductInput{}, err
	}

	out := domain.NewProductInput{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       price,
		Stock:       in.Stock,
		ImageUrl:    in.ImageUrl,
	}
	return out, out.Validate()
}

type AddToCartInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity"`
}

type SetQuantityInput struct {
	Quantity int64 `json:"quantity"`
}
