package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CartStore keeps cart snapshots between requests of the same session.
// Load returns an empty snapshot for unknown sessions.
type CartStore interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	Save(ctx context.Context, sessionID string, items []domain.CartItem) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryCartStore keeps snapshots in process. Like the redis store, a
// snapshot expires ttl after its last save; ttl <= 0 disables expiry.
type MemoryCartStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	carts map[string]memoryCart
	now   func() time.Time
}

type memoryCart struct {
	items     []domain.CartItem
	expiresAt time.Time
}

func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		ttl:   ttl,
		carts: make(map[string]memoryCart),
		now:   time.Now,
	}
}

func (s *MemoryCartStore) Load(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cart, ok := s.carts[sessionID]
	s.mu.RUnlock()

	if !ok {
		return []domain.CartItem{}, nil
	}
	if s.expired(cart, s.now()) {
		s.mu.Lock()
		if current, ok := s.carts[sessionID]; ok && s.expired(current, s.now()) {
			delete(s.carts, sessionID)
		}
		s.mu.Unlock()
		return []domain.CartItem{}, nil
	}

	out := make([]domain.CartItem, len(cart.items))
	copy(out, cart.items)
	return out, nil
}

func (s *MemoryCartStore) Save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		delete(s.carts, sessionID)
		return nil
	}

	stored := make([]domain.CartItem, len(items))
	copy(stored, items)

	cart := memoryCart{items: stored}
	if s.ttl > 0 {
		cart.expiresAt = s.now().Add(s.ttl)
	}
	s.carts[sessionID] = cart
	return nil
}

func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// Sweep drops expired snapshots and reports how many were dropped.
func (s *MemoryCartStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, cart := range s.carts {
		if s.expired(cart, now) {
			delete(s.carts, id)
			dropped++
		}
	}
	return dropped
}

func (s *MemoryCartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

func (s *MemoryCartStore) expired(cart memoryCart, now time.Time) bool {
	return !cart.expiresAt.IsZero() && !now.Before(cart.expiresAt)
}

type redisCartStore struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	logger *zap.Logger
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) CartStore {
	return &redisCartStore{
		client: client,
		ttl:    ttl,
		tracer: otel.Tracer("storefront/cart_store"),
		logger: logger,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *redisCartStore) Load(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartStore.Load")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", sessionID))

	val, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		span.RecordError(err)
		s.logger.Error("error loading cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("error loading cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(val, &items); err != nil {
		span.RecordError(err)
		s.logger.Warn("corrupted cart snapshot dropped", zap.String("session_id", sessionID), zap.Error(err))
		return []domain.CartItem{}, nil
	}

	return items, nil
}

func (s *redisCartStore) Save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("lines", len(items)),
	)

	if len(items) == 0 {
		return s.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cart snapshot marshal error: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		s.logger.Error("error saving cart", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("error saving cart: %w", err)
	}

	return nil
}

func (s *redisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		s.logger.Error("error deleting cart", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("error deleting cart: %w", err)
	}

	return nil
}
