package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelStreak  Level = "streak"
)

// DefaultTTL is how long a notice stays visible unless the caller asks
// otherwise.
const DefaultTTL = 3 * time.Second

const maxQueued = 16

// Toast is one ephemeral user-facing notice.
type Toast struct {
	ID        string
	Level     Level
	Message   string
	ExpiresAt time.Time
}

// Queue holds auto-expiring notices. It is bounded and never blocks: when
// full, the oldest notice is evicted.
type Queue struct {
	clock clockwork.Clock

	mu    sync.Mutex
	items []Toast
}

func NewQueue(clock clockwork.Clock) *Queue {
	return &Queue{clock: clock}
}

// Push enqueues a notice with the default TTL.
func (q *Queue) Push(level Level, message string) Toast {
	return q.PushTTL(level, message, DefaultTTL)
}

// PushTTL enqueues a notice that expires after ttl.
func (q *Queue) PushTTL(level Level, message string, ttl time.Duration) Toast {
	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		ExpiresAt: q.clock.Now().Add(ttl),
	}

	q.mu.Lock()
	q.pruneLocked()
	if len(q.items) >= maxQueued {
		q.items = q.items[1:]
	}
	q.items = append(q.items, t)
	q.mu.Unlock()
	return t
}

// Active returns the not-yet-expired notices, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pruneLocked()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) pruneLocked() {
	now := q.clock.Now()
	live := q.items[:0]
	for _, t := range q.items {
		if t.ExpiresAt.After(now) {
			live = append(live, t)
		}
	}
	q.items = live
}
