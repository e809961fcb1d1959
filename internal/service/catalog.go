package service

import (
	"context"
	"errors"

	"github.com/sakashimaa/go-pet-project/storefront/internal/catalog"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ListQuery struct {
	Search   string
	Category string
	Sort     catalog.SortKey
}

func (s *StorefrontService) ListProducts(ctx context.Context, q ListQuery) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.ListProducts")
	defer span.End()

	products, err := s.products.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	view := catalog.NewView(products)
	view.Query = q.Search
	view.Category = q.Category
	view.Sort = q.Sort

	visible := view.VisibleItems()
	span.SetAttributes(
		attribute.String("search", q.Search),
		attribute.String("category", q.Category),
		attribute.String("sort", string(q.Sort)),
		attribute.Int("visible", len(visible)),
	)

	return visible, nil
}

// Categories lists the categories present in the whole catalog, ignoring
// any search or filter.
func (s *StorefrontService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.NewView(products).DistinctCategories(), nil
}

// GetProduct resolves the detail page. An unknown id notifies the session.
func (s *StorefrontService) GetProduct(ctx context.Context, sessionID string, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.GetProduct")
	defer span.End()

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrProductNotFound) {
			mylogger.Info(ctx, s.logger, "product not found", zap.Int64("product_id", id))
			s.notify(ctx, sessionID, domain.KindError, MsgNotFound)
		}
		return nil, err
	}

	return p, nil
}

type Quote struct {
	Product  *domain.Product
	Quantity int64
	Total    domain.Money
}

// Quote clamps the requested quantity to [1, stock]. Out of stock products
// quote zero units.
func (s *StorefrontService) Quote(ctx context.Context, sessionID string, id, quantity int64) (Quote, error) {
	p, err := s.GetProduct(ctx, sessionID, id)
	if err != nil {
		return Quote{}, err
	}

	quantity = max(1, min(quantity, p.Stock))
	if !p.InStock() {
		quantity = 0
	}

	total, err := p.Price.Mul(quantity)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Product:  p,
		Quantity: quantity,
		Total:    total,
	}, nil
}
