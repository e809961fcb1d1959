package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/handler"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Notification *handler.NotificationHandler
}

// RegisterRoutes mounts the storefront API. session and auth run on every
// /api request; h.Auth is optional.
func RegisterRoutes(app *fiber.App, h *Handlers, session, auth fiber.Handler) {
	app.Get("/health", handler.Health)

	if h.Auth != nil {
		app.Post("/auth/token", h.Auth.Token)
	}

	api := app.Group("/api", session, auth)

	product := api.Group("/products")
	product.Get("", h.Product.ListProducts)
	product.Post("", h.Product.Create)
	product.Get("/categories", h.Product.Categories)
	product.Get("/categories/allowed", h.Product.AllowedCategories)
	product.Get("/image-preview", h.Product.ImagePreview)
	product.Get("/:id", h.Product.FindByID)
	product.Get("/:id/quote", h.Product.Quote)

	cart := api.Group("/cart")
	cart.Get("", h.Cart.Get)
	cart.Post("/items", h.Cart.AddItem)
	cart.Put("/items/:id", h.Cart.SetQuantity)
	cart.Post("/items/:id/increment", h.Cart.Increment)
	cart.Post("/items/:id/decrement", h.Cart.Decrement)
	cart.Delete("/items/:id", h.Cart.Remove)
	cart.Post("/checkout", h.Cart.Checkout)

	api.Get("/notifications", h.Notification.Drain)
}
