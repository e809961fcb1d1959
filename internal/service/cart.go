package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakashimaa/go-pet-project/storefront/internal/cart"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type LineView struct {
	cart.Line
	Total domain.Money
}

type CartView struct {
	Lines     []LineView
	Total     domain.Money
	UnitCount int64
}

func viewOf(l *cart.Ledger) (CartView, error) {
	total, err := l.Total()
	if err != nil {
		return CartView{}, err
	}

	lines := make([]LineView, 0, l.Len())
	for _, line := range l.Lines() {
		lineTotal, err := line.Total()
		if err != nil {
			return CartView{}, err
		}
		lines = append(lines, LineView{Line: line, Total: lineTotal})
	}

	return CartView{
		Lines:     lines,
		Total:     total,
		UnitCount: l.UnitCount(),
	}, nil
}

// withCart loads the session ledger, applies fn and saves the result when
// fn succeeds and the cart total is still representable. The session lock
// is held for the whole round trip.
func (s *StorefrontService) withCart(
	ctx context.Context,
	sessionID string,
	fn func(l *cart.Ledger) error,
) (CartView, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	items, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("error loading cart: %w", err)
	}

	ledger := cart.Restore(s.products, items)
	if fn == nil {
		return viewOf(ledger)
	}

	if err := fn(ledger); err != nil {
		view, viewErr := viewOf(ledger)
		if viewErr != nil {
			return CartView{}, viewErr
		}
		return view, err
	}

	view, err := viewOf(ledger)
	if err != nil {
		return CartView{}, err
	}

	if err := s.carts.Save(ctx, sessionID, ledger.Snapshot()); err != nil {
		return CartView{}, fmt.Errorf("error saving cart: %w", err)
	}

	return view, nil
}

func (s *StorefrontService) Cart(ctx context.Context, sessionID string) (CartView, error) {
	return s.withCart(ctx, sessionID, nil)
}

// AddToCart adds quantity units of a product. The success message names
// the quantity only when more than one unit was requested.
func (s *StorefrontService) AddToCart(ctx context.Context, sessionID string, productID, quantity int64) (CartView, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.AddToCart")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product_id", productID),
		attribute.Int64("quantity", quantity),
	)

	p, err := s.GetProduct(ctx, sessionID, productID)
	if err != nil {
		return CartView{}, err
	}

	view, err := s.withCart(ctx, sessionID, func(l *cart.Ledger) error {
		_, err := l.Add(p, quantity)
		return err
	})
	if err != nil {
		span.RecordError(err)
		s.notifyCartError(ctx, sessionID, err)
		return view, err
	}

	msg := fmt.Sprintf(MsgAdded, p.Name)
	if quantity > 1 {
		msg = fmt.Sprintf(MsgAddedQuantity, quantity, p.Name)
	}
	s.notify(ctx, sessionID, domain.KindSuccess, msg)

	mylogger.Info(
		ctx,
		mylogger.WithSession(s.logger, sessionID),
		"added to cart",
		zap.Int64("product_id", productID),
		zap.Int64("quantity", quantity),
	)

	return view, nil
}

// SetQuantity fails with ErrLineNotFound when a positive quantity targets a
// product that is not in the cart. Non-positive quantities always succeed.
func (s *StorefrontService) SetQuantity(ctx context.Context, sessionID string, productID, quantity int64) (CartView, error) {
	var removed bool

	view, err := s.withCart(ctx, sessionID, func(l *cart.Ledger) error {
		_, had := l.Line(productID)
		if !had && quantity > 0 {
			return fmt.Errorf("set product %d: %w", productID, domain.ErrLineNotFound)
		}
		if err := l.SetQuantity(productID, quantity); err != nil {
			return err
		}
		_, has := l.Line(productID)
		removed = had && !has
		return nil
	})
	if err != nil {
		s.notifyCartError(ctx, sessionID, err)
		return view, err
	}

	if removed {
		s.notify(ctx, sessionID, domain.KindInfo, MsgItemRemoved)
	}

	return view, nil
}

func (s *StorefrontService) Increment(ctx context.Context, sessionID string, productID int64) (CartView, error) {
	view, err := s.withCart(ctx, sessionID, func(l *cart.Ledger) error {
		if _, ok := l.Line(productID); !ok {
			return fmt.Errorf("increment product %d: %w", productID, domain.ErrLineNotFound)
		}
		return l.Increment(productID)
	})
	if err != nil {
		s.notifyCartError(ctx, sessionID, err)
	}
	return view, err
}

func (s *StorefrontService) Decrement(ctx context.Context, sessionID string, productID int64) (CartView, error) {
	var removed bool

	view, err := s.withCart(ctx, sessionID, func(l *cart.Ledger) error {
		line, ok := l.Line(productID)
		removed = ok && line.Quantity == 1
		return l.Decrement(productID)
	})
	if err != nil {
		return view, err
	}

	if removed {
		s.notify(ctx, sessionID, domain.KindInfo, MsgItemRemoved)
	}
	return view, nil
}

func (s *StorefrontService) RemoveFromCart(ctx context.Context, sessionID string, productID int64) (CartView, error) {
	var removed bool

	view, err := s.withCart(ctx, sessionID, func(l *cart.Ledger) error {
		removed = l.Remove(productID)
		return nil
	})
	if err != nil {
		return view, err
	}

	if removed {
		s.notify(ctx, sessionID, domain.KindInfo, MsgItemRemoved)
	}
	return view, nil
}

// Checkout is the terminal cart action. There is no order backend yet.
func (s *StorefrontService) Checkout(ctx context.Context, sessionID string) error {
	mylogger.Info(ctx, mylogger.WithSession(s.logger, sessionID), "checkout requested")
	s.notify(ctx, sessionID, domain.KindInfo, MsgCheckoutUnavailable)

	return domain.ErrCheckoutNotImplemented
}

func (s *StorefrontService) notifyCartError(ctx context.Context, sessionID string, err error) {
	if errors.Is(err, domain.ErrStockLimitReached) {
		s.notify(ctx, sessionID, domain.KindError, MsgStockLimit)
	}
}
