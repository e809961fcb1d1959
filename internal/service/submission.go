package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	outboxDomain "github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
	"go.uber.org/zap"
)

// SubmitProduct runs the add-product flow for a validated form. Only
// farmers may submit and each session has at most one submission pending.
// The simulated delay is not interrupted by ctx.
func (s *StorefrontService) SubmitProduct(
	ctx context.Context,
	sessionID, role string,
	input domain.NewProductInput,
) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SubmitProduct")
	defer span.End()

	if err := s.RequireFarmer(ctx, sessionID, role); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		mylogger.Warn(ctx, s.logger, "product submission invalid", zap.Error(err))
		return nil, err
	}

	if _, busy := s.pending.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, domain.ErrSubmissionInProgress
	}
	defer s.pending.Delete(sessionID)

	product, err := utils.ExecuteWithBreaker(s.breaker, func() (*domain.Product, error) {
		s.sleep(s.opts.SubmissionDelay)
		return s.products.Create(ctx, input)
	})
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, mylogger.WithSession(s.logger, sessionID), "product submission failed", zap.Error(err))
		s.notify(ctx, sessionID, domain.KindError, MsgProductFailed)
		return nil, fmt.Errorf("%w: %w", domain.ErrSubmissionFailure, err)
	}

	s.enqueueCreated(ctx, product)
	s.notify(ctx, sessionID, domain.KindSuccess, MsgProductAdded)

	mylogger.Info(
		ctx,
		s.logger,
		"product added",
		zap.Int64("product_id", product.ID),
		zap.String("category", product.Category),
	)

	return product, nil
}

// enqueueCreated records the ProductCreated event. The product is already
// in the catalog, so a failure here is only logged.
func (s *StorefrontService) enqueueCreated(ctx context.Context, p *domain.Product) {
	payload, err := json.Marshal(map[string]any{
		"event": domain.EventProductCreated,
		"payload": domain.ProductCreatedEvent{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Stock:     p.Stock,
			CreatedAt: p.CreatedAt,
		},
	})
	if err != nil {
		mylogger.Error(ctx, s.logger, "error marshalling product event", zap.Error(err))
		return
	}

	event := &outboxDomain.OutboxEvent{
		Topic:         s.opts.Topic,
		AggregateType: "Product",
		AggregateID:   strconv.FormatInt(p.ID, 10),
		EventType:     domain.EventProductCreated,
		Payload:       payload,
	}

	if err := s.outbox.SaveOutboxEvent(context.WithoutCancel(ctx), event); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"error saving outbox event",
			zap.Int64("product_id", p.ID),
			zap.Error(err),
		)
	}
}

// RequireFarmer is the add-product gate.
func (s *StorefrontService) RequireFarmer(ctx context.Context, sessionID, role string) error {
	if role == domain.RoleFarmer {
		return nil
	}

	mylogger.Warn(ctx, s.logger, "product submission rejected", zap.String("role", role))
	s.notify(ctx, sessionID, domain.KindError, MsgForbidden)
	return domain.ErrForbidden
}
