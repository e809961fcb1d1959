package repository

import (
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
)

// AllowedCategories are the categories offered by the add-product form.
var AllowedCategories = []string{"Rice", "Chillies", "Turmeric", "Groundnut", "Pulses", "Storage Crops"}

func seedTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedProducts returns the mock catalog the storefront starts with.
func SeedProducts() []domain.Product {
	raw := []struct {
		name, description, category string
		price                       domain.Money
		stock                       int64
		image, created              string
	}{
		{"Premium Basmati Rice", "Long-grain premium basmati rice, perfect for biryanis and pulaos. Grown using traditional farming methods.", "Rice", 12000, 50, "https://images.unsplash.com/photo-1586201375761-83865001e8ac?ixlib=rb-4.0.3", "2023-01-15T10:30:00"},
		{"Organic Brown Rice", "Nutrient-rich brown rice with natural bran layer. High in fiber and essential nutrients.", "Rice", 9500, 45, "https://images.unsplash.com/photo-1551779074-a80da6208053?ixlib=rb-4.0.3", "2023-01-16T11:20:00"},
		{"Kashmir Red Chillies", "Authentic Kashmiri red chillies known for their vibrant color and mild heat. Perfect for curries and marinades.", "Chillies", 8500, 30, "https://images.unsplash.com/photo-1588252303782-cb80119abd6d?ixlib=rb-4.0.3", "2023-01-18T09:15:00"},
		{"Green Chilli Powder", "Finely ground green chilli powder with intense flavor and heat. Use sparingly in dishes.", "Chillies", 7500, 35, "https://images.unsplash.com/photo-1638957773782-f9614ba79d81?ixlib=rb-4.0.3", "2023-01-20T14:45:00"},
		{"Premium Turmeric Powder", "High-curcumin turmeric powder, freshly ground from farm-grown turmeric. Vibrant color and rich aroma.", "Turmeric", 11000, 40, "https://images.unsplash.com/photo-1615485291236-f80a2542fcd3?ixlib=rb-4.0.3", "2023-01-25T16:30:00"},
		{"Raw Turmeric Root", "Fresh turmeric roots with deep orange flesh. Can be used fresh or dried for various health benefits.", "Turmeric", 9000, 25, "https://images.unsplash.com/photo-1576092761339-fd2d6b077114?ixlib=rb-4.0.3", "2023-01-28T13:20:00"},
		{"Raw Groundnuts", "Unprocessed groundnuts with shells intact. Perfect for roasting or making homemade peanut butter.", "Groundnut", 6500, 60, "https://images.unsplash.com/photo-1543362906-acfc16c67564?ixlib=rb-4.0.3", "2023-02-01T10:15:00"},
		{"Groundnut Oil", "Cold-pressed groundnut oil with rich flavor and high smoke point. Ideal for cooking and deep-frying.", "Groundnut", 22000, 40, "https://images.unsplash.com/photo-1589927986089-35812388d1f4?ixlib=rb-4.0.3", "2023-02-05T11:45:00"},
		{"Toor Dal", "Split pigeon peas with high protein content. Essential ingredient in sambar and many Indian dishes.", "Pulses", 11000, 55, "https://images.unsplash.com/photo-1612257999756-9ce2cb138816?ixlib=rb-4.0.3", "2023-02-10T09:30:00"},
		{"Moong Dal", "Split green gram legumes that cook quickly. Light and easy to digest, perfect for soups and stews.", "Pulses", 9500, 50, "https://images.unsplash.com/photo-1616684000067-36952fde56ec?ixlib=rb-4.0.3", "2023-02-15T14:20:00"},
		{"Dried Onions", "Dehydrated onion chunks that can be stored for months. Rehydrate before using in cooking.", "Storage Crops", 6000, 70, "https://images.unsplash.com/photo-1596031708648-31e51c97de64?ixlib=rb-4.0.3", "2023-02-20T16:45:00"},
		{"Garlic Bulbs", "Long-lasting garlic bulbs with strong flavor. Store in a cool, dry place for extended shelf life.", "Storage Crops", 7500, 65, "https://images.unsplash.com/photo-1540148426945-6cf22a6b2383?ixlib=rb-4.0.3", "2023-02-25T11:30:00"},
	}

	products := make([]domain.Product, 0, len(raw))
	for i, r := range raw {
		created := seedTime(r.created)
		products = append(products, domain.Product{
			ID:          int64(i + 1),
			Name:        r.name,
			Description: r.description,
			Category:    r.category,
			Price:       r.price,
			Stock:       r.stock,
			ImageUrl:    r.image,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}

	return products
}
