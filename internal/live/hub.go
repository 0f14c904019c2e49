// Package live fans newly registered users out to connected admin streams.
// Delivery is best-effort and at-most-once: there is no history, no replay
// and no buffering for subscribers that are not connected at publish time.
package live

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/habitflow/userhub/internal/domain/user"
)

// subscriberBuffer absorbs short bursts; a subscriber that cannot keep up
// loses events instead of blocking the publisher.
const subscriberBuffer = 8

type Hub struct {
	mu     sync.Mutex
	subs   map[string]chan user.User
	closed bool

	log *slog.Logger

	// optional counters, nil-safe
	onDelivered func()
	onDropped   func()
	onSubCount  func(n int)
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		subs: make(map[string]chan user.User),
		log:  log,
	}
}

// SetCounters wires delivery outcome callbacks (used for metrics).
func (h *Hub) SetCounters(delivered, dropped func()) {
	h.onDelivered = delivered
	h.onDropped = dropped
}

// SetSubscriberCount wires a callback reporting the subscriber total after
// every change.
func (h *Hub) SetSubscriberCount(fn func(n int)) {
	h.onSubCount = fn
}

func (h *Hub) reportSubCount() {
	if h.onSubCount != nil {
		h.onSubCount(len(h.subs))
	}
}

// Subscribe registers a new stream and returns its id and receive channel.
// The channel is closed by Unsubscribe or by Close.
func (h *Hub) Subscribe() (string, <-chan user.User) {
	id := uuid.NewString()
	ch := make(chan user.User, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return id, ch
	}

	h.subs[id] = ch
	h.reportSubCount()

	return id, ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]

	if !ok {
		return
	}

	delete(h.subs, id)
	close(ch)
	h.reportSubCount()
}

// Publish pushes u to every currently connected subscriber. The snapshot is
// built and drained under the lock: sends are non-blocking so the hold time
// is tiny, and Unsubscribe can never close a channel mid-send. A full
// subscriber never blocks the others or the registration that triggered the
// publish.
func (h *Hub) Publish(u user.User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := make([]chan user.User, 0, len(h.subs))

	for _, ch := range h.subs {
		snapshot = append(snapshot, ch)
	}

	for _, ch := range snapshot {
		select {
		case ch <- u:
			if h.onDelivered != nil {
				h.onDelivered()
			}
		default:
			// slow or half-dead subscriber, drop the event for it
			if h.onDropped != nil {
				h.onDropped()
			}

			if h.log != nil {
				h.log.Debug("live event dropped for slow subscriber", "user_id", u.ID)
			}
		}
	}
}

// Len reports the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}

// Close tears down every subscriber; used at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}

	h.reportSubCount()
}
