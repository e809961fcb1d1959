package domain

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrStockLimitReached      = errors.New("stock limit reached")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrForbidden              = errors.New("only farmers can add products")
	ErrSubmissionFailure      = errors.New("product submission failed")
	ErrSubmissionInProgress   = errors.New("product submission already in progress")
	ErrCheckoutNotImplemented = errors.New("checkout is not implemented")
	ErrAmountOutOfRange       = errors.New("amount out of range")
	ErrInvalidProduct         = errors.New("invalid product")
	ErrLineNotFound           = errors.New("product is not in the cart")
)
