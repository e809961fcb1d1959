// Package notify delivers user-visible outcome messages. Delivery is
// fire-and-forget: Notify never reports failure to the caller.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/mylogger"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// DefaultInboxSize bounds the number of undelivered messages per session.
const DefaultInboxSize = 20

// Inbox queues notifications per session until the client drains them.
// The oldest message is dropped once a session queue is full. A queue that
// was not touched for ttl is forgotten; ttl <= 0 keeps queues until drained.
type Inbox struct {
	mu       sync.Mutex
	size     int
	ttl      time.Duration
	sessions map[string]*queue
	now      func() time.Time
}

type queue struct {
	items   []domain.Notification
	touched time.Time
}

func NewInbox(size int, ttl time.Duration) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{
		size:     size,
		ttl:      ttl,
		sessions: make(map[string]*queue),
		now:      time.Now,
	}
}

func (i *Inbox) Notify(_ context.Context, n domain.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	q, ok := i.sessions[n.SessionID]
	if !ok || i.expired(q, now) {
		q = &queue{}
		i.sessions[n.SessionID] = q
	}

	q.items = append(q.items, n)
	if len(q.items) > i.size {
		q.items = q.items[len(q.items)-i.size:]
	}
	q.touched = now
}

// Drain returns and forgets everything queued for the session.
func (i *Inbox) Drain(sessionID string) []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	q, ok := i.sessions[sessionID]
	delete(i.sessions, sessionID)

	if !ok || i.expired(q, i.now()) {
		return []domain.Notification{}
	}
	return q.items
}

// Sweep drops expired queues and reports how many were dropped.
func (i *Inbox) Sweep() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	dropped := 0
	for id, q := range i.sessions {
		if i.expired(q, now) {
			delete(i.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.sessions)
}

func (i *Inbox) expired(q *queue, now time.Time) bool {
	return i.ttl > 0 && now.Sub(q.touched) >= i.ttl
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (l *logNotifier) Notify(ctx context.Context, n domain.Notification) {
	fields := []zap.Field{
		zap.String("session_id", n.SessionID),
		zap.String("kind", string(n.Kind)),
		zap.String("message", n.Message),
	}

	if n.Kind == domain.KindError {
		mylogger.Warn(ctx, l.logger, "user notification", fields...)
		return
	}

	mylogger.Info(ctx, l.logger, "user notification", fields...)
}

type multi []Notifier

func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

func (m multi) Notify(ctx context.Context, n domain.Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}
