package handler

import (
	"regexp"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/catalog"
	"github.com/sakashimaa/go-pet-project/storefront/internal/repository"
	"github.com/sakashimaa/go-pet-project/storefront/internal/service"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/middleware"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
	"go.uber.org/zap"
)

var imageURLPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpeg|jpg|png|webp|gif)$`)

// PreviewURL returns url when it points at a displayable image.
func PreviewURL(url string) (string, bool) {
	if !imageURLPattern.MatchString(url) {
		return "", false
	}
	return url, true
}

type ProductHandler struct {
	base
	validate          *validator.Validate
	submissionTimeout time.Duration
}

func NewProductHandler(
	svc *service.StorefrontService,
	inbox Inbox,
	logger *zap.Logger,
	timeout, submissionTimeout time.Duration,
) *ProductHandler {
	return &ProductHandler{
		base:              newBase(svc, inbox, logger, timeout),
		validate:          utils.NewValidator(),
		submissionTimeout: submissionTimeout,
	}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	q := service.ListQuery{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Sort:     catalog.ParseSortKey(c.Query("sort")),
	}

	products, err := h.svc.ListProducts(ctx, q)
	if err != nil {
		return h.fail(ctx, c, "list products failed", err)
	}

	mylogger.Debug(
		ctx,
		h.logger,
		"list products succeeded",
		zap.String("search", q.Search),
		zap.String("category", q.Category),
		zap.String("sort", string(q.Sort)),
		zap.Int("count", len(products)),
	)

	return h.reply(c, fiber.StatusOK, fiber.Map{
		"products": toProductList(products),
		"count":    len(products),
		"sort":     q.Sort,
	})
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		return h.fail(ctx, c, "list categories failed", err)
	}

	return h.reply(c, fiber.StatusOK, fiber.Map{"categories": categories})
}

func (h *ProductHandler) AllowedCategories(c *fiber.Ctx) error {
	return h.reply(c, fiber.StatusOK, fiber.Map{"categories": repository.AllowedCategories})
}

func (h *ProductHandler) ImagePreview(c *fiber.Ctx) error {
	url, ok := PreviewURL(c.Query("url"))
	if !ok {
		return h.reply(c, fiber.StatusOK, fiber.Map{"preview_url": nil})
	}
	return h.reply(c, fiber.StatusOK, fiber.Map{"preview_url": url})
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		mylogger.Warn(ctx, h.logger, "id is invalid", zap.String("id", c.Params("id")))
		return h.badRequest(c, "invalid id")
	}

	p, err := h.svc.GetProduct(ctx, middleware.SessionID(c), id)
	if err != nil {
		return h.fail(ctx, c, "find by id failed", err)
	}

	return h.reply(c, fiber.StatusOK, fiber.Map{"product": toProductResponse(p)})
}

func (h *ProductHandler) Quote(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return h.badRequest(c, "invalid id")
	}

	quantity := int64(c.QueryInt("quantity", 1))

	q, err := h.svc.Quote(ctx, middleware.SessionID(c), id, quantity)
	if err != nil {
		return h.fail(ctx, c, "quote failed", err)
	}

	return h.reply(c, fiber.StatusOK, fiber.Map{"quote": toQuoteResponse(q)})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.svc.RequireFarmer(ctx, middleware.SessionID(c), middleware.Role(c)); err != nil {
		return h.fail(ctx, c, "create product forbidden", err)
	}

	input := new(CreateProductInput)
	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(ctx, h.logger, "failed to parse body in create", zap.Error(err))
		return h.badRequest(c, "error parsing body")
	}

	if err := h.validate.Struct(input); err != nil {
		mylogger.Warn(ctx, h.logger, "create product input rejected", zap.Error(err))
		return h.badRequest(c, utils.FormatValidationError(err))
	}

	if !slices.Contains(repository.AllowedCategories, input.Category) {
		return h.badRequest(c, map[string]string{"category": "category is not supported"})
	}

	newProduct, err := input.toDomain()
	if err != nil {
		mylogger.Warn(ctx, h.logger, "create product input out of range", zap.Error(err))
		return h.badRequest(c, map[string]string{"price": "price or stock is out of range"})
	}

	// the simulated submission outlives the regular request timeout
	submitCtx, submitCancel := contextWithTimeout(c, h.submissionTimeout)
	defer submitCancel()

	p, err := h.svc.SubmitProduct(submitCtx, middleware.SessionID(c), middleware.Role(c), newProduct)
	if err != nil {
		return h.fail(ctx, c, "create product failed", err)
	}

	mylogger.Info(ctx, h.logger, "create product succeeded", zap.Int64("created_id", p.ID))

	return h.reply(c, fiber.StatusCreated, fiber.Map{
		"product":  toProductResponse(p),
		"redirect": productsPath,
	})
}
