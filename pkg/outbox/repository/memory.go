package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/domain"
)

// DefaultMaxAttempts is how many failed publishes an event gets before it
// is moved to the dead letters.
const DefaultMaxAttempts = 5

// MaxDeadLetters bounds the dead letters; the oldest are dropped first.
const MaxDeadLetters = 100

type MemoryOutbox struct {
	mu          sync.Mutex
	events      []*domain.OutboxEvent
	deadLetters []domain.OutboxEvent
	nextID      int64
	maxAttempts int64
	now         func() time.Time
}

func NewMemoryOutboxRepository(maxAttempts int64) *MemoryOutbox {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &MemoryOutbox{maxAttempts: maxAttempts, now: time.Now}
}

func (r *MemoryOutbox) SaveOutboxEvent(ctx context.Context, event *domain.OutboxEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *event
	stored.Id = r.nextID
	stored.CreatedAt = r.now()
	r.events = append(r.events, &stored)

	event.Id = stored.Id
	return nil
}

func (r *MemoryOutbox) GetUnpublishedEvents(ctx context.Context, batchSize int) ([]*domain.OutboxEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var batch []*domain.OutboxEvent
	for _, e := range r.events {
		if len(batch) >= batchSize {
			break
		}

		copied := *e
		batch = append(batch, &copied)
	}

	return batch, nil
}

func (r *MemoryOutbox) MarkEventPublished(_ context.Context, eventID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// published events are not kept around
	for i, e := range r.events {
		if e.Id == eventID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryOutbox) MarkEventFailed(_ context.Context, eventID int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, e := r.find(eventID)
	if e == nil {
		return nil
	}

	e.Attempts++
	e.LastError = &reason
	if e.Attempts < r.maxAttempts {
		return nil
	}

	r.events = append(r.events[:i], r.events[i+1:]...)
	r.deadLetters = append(r.deadLetters, *e)
	if len(r.deadLetters) > MaxDeadLetters {
		r.deadLetters = r.deadLetters[len(r.deadLetters)-MaxDeadLetters:]
	}
	return nil
}

// Pending counts events still waiting to be published.
func (r *MemoryOutbox) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

// DeadLetters returns copies of the events that ran out of attempts.
func (r *MemoryOutbox) DeadLetters() []domain.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.OutboxEvent, len(r.deadLetters))
	copy(out, r.deadLetters)
	return out
}

func (r *MemoryOutbox) find(id int64) (int, *domain.OutboxEvent) {
	for i, e := range r.events {
		if e.Id == id {
			return i, e
		}
	}
	return -1, nil
}
