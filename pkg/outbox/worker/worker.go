package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OutboxRepository interface {
	SaveOutboxEvent(ctx context.Context, event *domain.OutboxEvent) error
	GetUnpublishedEvents(ctx context.Context, batchSize int) ([]*domain.OutboxEvent, error)
	MarkEventPublished(ctx context.Context, eventID int64) error
	MarkEventFailed(ctx context.Context, eventID int64, reason string) error
}

type KafkaProducer interface {
	ProduceMessage(ctx context.Context, topic, key string, payload []byte) error
}

type OutboxProcessor struct {
	repo          OutboxRepository
	kafkaProducer KafkaProducer
	logger        *zap.Logger
	batchSize     int
	interval      time.Duration
	tracer        trace.Tracer
}

func NewOutboxProcessor(
	repo OutboxRepository,
	producer KafkaProducer,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:          repo,
		kafkaProducer: producer,
		logger:        logger,
		batchSize:     50,
		interval:      500 * time.Millisecond,
		tracer:        otel.Tracer("outbox-worker"),
	}
}

// Start polls the outbox until ctx is done.
func (p *OutboxProcessor) Start(ctx context.Context) {
	mylogger.Info(ctx, p.logger, "Starting outbox processor")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mylogger.Info(context.WithoutCancel(ctx), p.logger, "Outbox processor stopping")
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				mylogger.Error(ctx, p.logger, "Error processing outbox batch", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch and reports how many events went out.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "OutboxProcessor.ProcessBatch")
	defer span.End()

	events, err := p.repo.GetUnpublishedEvents(ctx, p.batchSize)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("error fetching outbox events: %w", err)
	}

	if len(events) == 0 {
		return 0, nil
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	mylogger.Debug(ctx, p.logger, "Processing outbox events", zap.Int("count", len(events)))

	var published int
	for _, event := range events {
		err := p.kafkaProducer.ProduceMessage(ctx, event.Topic, event.AggregateID, event.Payload)
		if err != nil {
			mylogger.Warn(
				ctx,
				p.logger,
				"outbox worker produce message failed",
				zap.Int64("id", event.Id),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)

			if markErr := p.repo.MarkEventFailed(ctx, event.Id, err.Error()); markErr != nil {
				return published, fmt.Errorf("error marking event %d failed: %w", event.Id, markErr)
			}
			continue
		}

		if err := p.repo.MarkEventPublished(ctx, event.Id); err != nil {
			return published, fmt.Errorf("error marking event %d published: %w", event.Id, err)
		}
		published++

		mylogger.Debug(
			ctx,
			p.logger,
			"outbox worker event published successfully",
			zap.Int64("id", event.Id),
		)
	}

	return published, nil
}
