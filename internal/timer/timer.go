package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Signal is one countdown emission. The run ticks Remaining from the start
// value down to 0 inclusive, then emits exactly one Signal with Expired set.
type Signal struct {
	Remaining int
	Expired   bool
}

// Urgency is derived by consumers from the remaining seconds; the timer
// itself stays mode-agnostic.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyCritical
)

// UrgencyFor maps remaining seconds to a display urgency tier.
func UrgencyFor(remaining int) Urgency {
	switch {
	case remaining <= 5:
		return UrgencyCritical
	case remaining <= 10:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// Timer is a cancellable one-second countdown. At most one countdown runs at
// a time; Start while running cancels the previous run first.
type Timer struct {
	clock clockwork.Clock

	mu     sync.Mutex
	cancel chan struct{}
}

func New(clock clockwork.Clock) *Timer {
	return &Timer{clock: clock}
}

// Start launches a countdown from seconds and returns its signal channel.
// The channel is buffered for the whole run, so the countdown never blocks
// on a slow consumer, and it is closed once the run ends or is cancelled.
func (t *Timer) Start(seconds int) <-chan Signal {
	if seconds < 0 {
		seconds = 0
	}
	cancel := make(chan struct{})
	out := make(chan Signal, seconds+2)

	t.mu.Lock()
	if t.cancel != nil {
		close(t.cancel)
	}
	t.cancel = cancel
	t.mu.Unlock()

	go t.run(seconds, out, cancel)
	return out
}

// Stop cancels the active countdown. Safe to call when nothing is running.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.mu.Unlock()
}

func (t *Timer) run(seconds int, out chan<- Signal, cancel <-chan struct{}) {
	defer close(out)
	for remaining := seconds; remaining >= 0; remaining-- {
		out <- Signal{Remaining: remaining}
		if remaining == 0 {
			break
		}
		select {
		case <-t.clock.After(time.Second):
		case <-cancel:
			return
		}
	}
	out <- Signal{Expired: true}
}
