package service

import (
	"context"
	"sync"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/internal/notify"
	"github.com/sakashimaa/go-pet-project/storefront/internal/repository"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/worker"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	MsgAdded               = "Added %s to cart"
	MsgAddedQuantity       = "Added %d %s to cart"
	MsgStockLimit          = "Cannot add more items. Stock limit reached."
	MsgItemRemoved         = "Item removed from cart"
	MsgNotFound            = "Product not found"
	MsgForbidden           = "Only farmers can add products"
	MsgProductAdded        = "Product added successfully!"
	MsgProductFailed       = "Failed to add product. Please try again."
	MsgCheckoutUnavailable = "Checkout is not available yet"
)

type Options struct {
	// SubmissionDelay is the simulated latency of adding a product.
	SubmissionDelay time.Duration
	Topic           string
}

type StorefrontService struct {
	products repository.ProductRepository
	carts    repository.CartStore
	outbox   worker.OutboxRepository
	notifier notify.Notifier
	breaker  *gobreaker.CircuitBreaker
	opts     Options

	locksMu sync.Mutex
	locks   map[string]*sessionLock
	pending sync.Map

	now    func() time.Time
	sleep  func(time.Duration)
	tracer trace.Tracer
	logger *zap.Logger
}

func NewStorefrontService(
	products repository.ProductRepository,
	carts repository.CartStore,
	outbox worker.OutboxRepository,
	notifier notify.Notifier,
	opts Options,
	logger *zap.Logger,
) *StorefrontService {
	if opts.Topic == "" {
		opts.Topic = "product_events"
	}

	return &StorefrontService{
		products: products,
		carts:    carts,
		outbox:   outbox,
		notifier: notifier,
		breaker:  utils.NewBreaker("ProductSubmission", logger),
		opts:     opts,
		locks:    make(map[string]*sessionLock),
		now:      time.Now,
		sleep:    time.Sleep,
		tracer:   otel.Tracer("storefront/service"),
		logger:   logger,
	}
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lockSession serializes operations of one session. The entry lives only
// while some caller holds or waits for it.
func (s *StorefrontService) lockSession(sessionID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}

func (s *StorefrontService) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

func (s *StorefrontService) notify(ctx context.Context, sessionID string, kind domain.NotificationKind, msg string) {
	s.notifier.Notify(ctx, domain.Notification{
		SessionID: sessionID,
		Kind:      kind,
		Message:   msg,
		CreatedAt: s.now(),
	})
}
