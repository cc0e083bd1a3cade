package dedupe

import (
	"sync"
	"time"

	"newsbrief/internal/models"
	"newsbrief/internal/text"
)

// Window remembers briefing items published during a rolling TTL so the
// worker does not republish the same story on every tick. It holds at
// most capacity keys; the oldest are evicted first.
type Window struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	order    []keyedAt
	capacity int
	ttl      time.Duration
}

type keyedAt struct {
	key string
	at  time.Time
}

// NewWindow creates a window with the provided capacity and ttl.
func NewWindow(capacity int, ttl time.Duration) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Window{
		seen:     make(map[string]time.Time, capacity),
		order:    make([]keyedAt, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Key derives the suppression key for an item from its stable fields.
func Key(item models.NewsItem) string {
	return text.BuildItemID(item.Title, item.Source, item.PublishedAt)
}

// Published reports whether the key was recorded inside the ttl window.
func (w *Window) Published(key string) bool {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	at, ok := w.seen[key]
	return ok && now.Sub(at) <= w.ttl
}

// Record marks a key as published now.
func (w *Window) Record(key string) {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.seen[key] = now
	w.order = append(w.order, keyedAt{key: key, at: now})
	w.evict(now)
}

func (w *Window) evict(now time.Time) {
	cutoff := now.Add(-w.ttl)

	for len(w.order) > 0 && (len(w.seen) > w.capacity || w.order[0].at.Before(cutoff)) {
		oldest := w.order[0]
		w.order = w.order[1:]

		if at, ok := w.seen[oldest.key]; ok && at.Equal(oldest.at) {
			delete(w.seen, oldest.key)
		}
	}
}
