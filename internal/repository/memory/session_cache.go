package memory

import (
	"sync"
	"time"

	"faq-agentic-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionCache is a best-effort read-through accelerator in front of the
// durable interaction log. It is bounded two ways: entries expire after a
// TTL, and the total number of session keys never exceeds capacity (oldest
// inserted key evicted first). The durable store stays authoritative; a miss
// here is always answerable from Postgres.
type SessionCache struct {
	mu       sync.Mutex
	store    *cache.Cache
	order    []string // key insertion order, drives capacity eviction
	capacity int
	window   int // max interactions retained per session entry
}

func NewSessionCache(capacity, window int) *SessionCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if window <= 0 {
		window = 50
	}
	// 1 hour default expiration, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionCache{
		store:    c,
		order:    make([]string, 0, capacity),
		capacity: capacity,
		window:   window,
	}
}

// Get returns the cached history in chronological order (oldest first).
// The second return is false on a miss.
func (sc *SessionCache) Get(sessionId string) ([]*entity.Interaction, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	x, found := sc.store.Get(sessionId)
	if !found {
		return nil, false
	}
	history := x.([]*entity.Interaction)
	out := make([]*entity.Interaction, len(history))
	copy(out, history)
	return out, true
}

// Put replaces the entry for a session with history in chronological order,
// trimmed to the window.
func (sc *SessionCache) Put(sessionId string, history []*entity.Interaction) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.set(sessionId, trimToWindow(history, sc.window))
}

// Append adds one interaction to a session's entry, creating the entry when
// absent, and trims to the window.
func (sc *SessionCache) Append(sessionId string, interaction *entity.Interaction) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var history []*entity.Interaction
	if x, found := sc.store.Get(sessionId); found {
		history = x.([]*entity.Interaction)
	}
	history = append(append([]*entity.Interaction(nil), history...), interaction)
	sc.set(sessionId, trimToWindow(history, sc.window))
}

// Flush drops every entry. Used after retention cleanup: the next read
// repopulates correctly from the durable store.
func (sc *SessionCache) Flush() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.store.Flush()
	sc.order = sc.order[:0]
}

func (sc *SessionCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.store.ItemCount()
}

// set assumes the mutex is held.
func (sc *SessionCache) set(sessionId string, history []*entity.Interaction) {
	if _, exists := sc.store.Get(sessionId); !exists {
		// A key whose entry expired via TTL may still sit in order; drain
		// it so the key never appears twice and a later capacity eviction
		// cannot hit the live entry through the stale duplicate.
		sc.removeFromOrder(sessionId)
		sc.order = append(sc.order, sessionId)
		sc.evictOverflow()
	}
	sc.store.Set(sessionId, history, cache.DefaultExpiration)
}

func (sc *SessionCache) removeFromOrder(sessionId string) {
	for i, key := range sc.order {
		if key == sessionId {
			sc.order = append(sc.order[:i], sc.order[i+1:]...)
			return
		}
	}
}

// evictOverflow removes oldest-inserted keys until the count fits. Keys whose
// entries already expired via TTL are skipped but still drained from order.
func (sc *SessionCache) evictOverflow() {
	for len(sc.order) > sc.capacity {
		oldest := sc.order[0]
		sc.order = sc.order[1:]
		sc.store.Delete(oldest)
	}
}

func trimToWindow(history []*entity.Interaction, window int) []*entity.Interaction {
	if len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}
