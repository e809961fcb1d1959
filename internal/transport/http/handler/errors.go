package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/internal/service"
	"github.com/sony/gobreaker"
)

const productsPath = "/products"

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrLineNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidProduct):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAmountOutOfRange):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStockLimitReached), errors.Is(err, domain.ErrSubmissionInProgress):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrSubmissionFailure),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCheckoutNotImplemented):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return service.MsgNotFound
	case errors.Is(err, domain.ErrStockLimitReached):
		return service.MsgStockLimit
	case errors.Is(err, domain.ErrForbidden):
		return service.MsgForbidden
	case errors.Is(err, domain.ErrSubmissionFailure):
		return service.MsgProductFailed
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrAmountOutOfRange),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrCheckoutNotImplemented):
		return err.Error()
	default:
		return "internal error"
	}
}

// errorBody renders a domain error. A missing product sends the client
// back to the catalog.
func errorBody(err error) fiber.Map {
	body := fiber.Map{"error": errorMessage(err)}
	if errors.Is(err, domain.ErrProductNotFound) {
		body["redirect"] = productsPath
	}
	return body
}
