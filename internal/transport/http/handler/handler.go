package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/internal/service"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/middleware"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"go.uber.org/zap"
)

// Inbox hands out the notifications queued for a session.
type Inbox interface {
	Drain(sessionID string) []domain.Notification
}

const defaultTimeout = time.Second

type base struct {
	svc     *service.StorefrontService
	inbox   Inbox
	logger  *zap.Logger
	timeout time.Duration
}

func newBase(svc *service.StorefrontService, inbox Inbox, logger *zap.Logger, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return base{svc: svc, inbox: inbox, logger: logger, timeout: timeout}
}

func (b *base) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return contextWithTimeout(c, b.timeout)
}

// reply attaches the session's pending notifications to the body.
func (b *base) reply(c *fiber.Ctx, status int, body fiber.Map) error {
	body["notifications"] = b.inbox.Drain(middleware.SessionID(c))
	return c.Status(status).JSON(body)
}

func (b *base) fail(ctx context.Context, c *fiber.Ctx, msg string, err error) error {
	status := errorStatus(err)

	if status >= fiber.StatusInternalServerError && status != fiber.StatusNotImplemented {
		mylogger.Error(ctx, b.logger, msg, zap.Int("http_status", status), zap.Error(err))
	} else {
		mylogger.Warn(ctx, b.logger, msg, zap.Int("http_status", status), zap.Error(err))
	}

	return b.reply(c, status, errorBody(err))
}

func (b *base) badRequest(c *fiber.Ctx, body any) error {
	return b.reply(c, fiber.StatusBadRequest, fiber.Map{"error": body})
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func contextWithTimeout(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.UserContext(), timeout)
}
