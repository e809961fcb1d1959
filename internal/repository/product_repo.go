package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductRepository interface {
	// List returns the catalog in insertion order. The returned products
	// are shared and must not be modified.
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Lookup(id int64) (*domain.Product, bool)
	Create(ctx context.Context, input domain.NewProductInput) (*domain.Product, error)
}

type productRepo struct {
	mu       sync.RWMutex
	products []*domain.Product
	index    map[int64]*domain.Product
	nextID   int64
	now      func() time.Time
	tracer   trace.Tracer
	logger   *zap.Logger
}

func NewProductRepository(seed []domain.Product, logger *zap.Logger) ProductRepository {
	r := &productRepo{
		products: make([]*domain.Product, 0, len(seed)),
		index:    make(map[int64]*domain.Product, len(seed)),
		now:      time.Now,
		tracer:   otel.Tracer("storefront/product_repo"),
		logger:   logger,
	}

	for i := range seed {
		p := seed[i]
		r.products = append(r.products, &p)
		r.index[p.ID] = &p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}

	return r
}

func (r *productRepo) List(ctx context.Context) ([]*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	span.SetAttributes(attribute.Int("count", len(r.products)))

	list := make([]*domain.Product, len(r.products))
	copy(list, r.products)
	return list, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	p, ok := r.Lookup(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	return p, nil
}

func (r *productRepo) Lookup(id int64) (*domain.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.index[id]
	return p, ok
}

func (r *productRepo) Create(ctx context.Context, input domain.NewProductInput) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("name", input.Name))

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := input.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now()
	p := &domain.Product{
		ID:          r.nextID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageUrl:    input.ImageUrl,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.products = append(r.products, p)
	r.index[p.ID] = p

	r.logger.Debug("product appended to catalog", zap.Int64("product_id", p.ID))
	return p, nil
}
