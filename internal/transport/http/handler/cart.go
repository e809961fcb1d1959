package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/service"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/middleware"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
	"go.uber.org/zap"
)

type CartHandler struct {
	base
	validate *validator.Validate
}

func NewCartHandler(svc *service.StorefrontService, inbox Inbox, logger *zap.Logger, timeout time.Duration) *CartHandler {
	return &CartHandler{
		base:     newBase(svc, inbox, logger, timeout),
		validate: utils.NewValidator(),
	}
}

func (h *CartHandler) cartReply(c *fiber.Ctx, view service.CartView) error {
	return h.reply(c, fiber.StatusOK, fiber.Map{"cart": toCartResponse(view)})
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	view, err := h.svc.Cart(ctx, middleware.SessionID(c))
	if err != nil {
		return h.fail(ctx, c, "get cart failed", err)
	}

	return h.cartReply(c, view)
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	input := new(AddToCartInput)
	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(ctx, h.logger, "body parsing failed", zap.Error(err))
		return h.badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(input); err != nil {
		return h.badRequest(c, utils.FormatValidationError(err))
	}

	// the catalog card adds a single unit
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	view, err := h.svc.AddToCart(ctx, middleware.SessionID(c), input.ProductID, input.Quantity)
	if err != nil {
		return h.fail(ctx, c, "add to cart failed", err)
	}

	return h.cartReply(c, view)
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return h.badRequest(c, "invalid product id")
	}

	input := new(SetQuantityInput)
	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(ctx, h.logger, "body parsing failed", zap.Error(err))
		return h.badRequest(c, "invalid request body")
	}

	view, err := h.svc.SetQuantity(ctx, middleware.SessionID(c), id, input.Quantity)
	if err != nil {
		return h.fail(ctx, c, "set quantity failed", err)
	}

	return h.cartReply(c, view)
}

func (h *CartHandler) Increment(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return h.badRequest(c, "invalid product id")
	}

	view, err := h.svc.Increment(ctx, middleware.SessionID(c), id)
	if err != nil {
		return h.fail(ctx, c, "increment failed", err)
	}

	return h.cartReply(c, view)
}

func (h *CartHandler) Decrement(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return h.badRequest(c, "invalid product id")
	}

	view, err := h.svc.Decrement(ctx, middleware.SessionID(c), id)
	if err != nil {
		return h.fail(ctx, c, "decrement failed", err)
	}

	return h.cartReply(c, view)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return h.badRequest(c, "invalid product id")
	}

	view, err := h.svc.RemoveFromCart(ctx, middleware.SessionID(c), id)
	if err != nil {
		return h.fail(ctx, c, "remove from cart failed", err)
	}

	return h.cartReply(c, view)
}

func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	err := h.svc.Checkout(ctx, middleware.SessionID(c))
	return h.fail(ctx, c, "checkout failed", err)
}
