package client

import (
	"sync"

	"nightfall/client/internal/protocol"
)

// Listener observes one post-transition state together with the event that
// produced it. Listeners run synchronously on the applying goroutine and
// must not block.
type Listener func(event protocol.Event, state SessionState)

// listenerSet is an order-preserving fan-out that tolerates subscription
// changes during a notify: the notifying snapshot is taken up front, and a
// listener unsubscribed mid-notify is skipped rather than called on a stale
// slot.
type listenerSet struct {
	mu     sync.Mutex
	nextID uint64
	order  []uint64
	fns    map[uint64]Listener
}

func newListenerSet() *listenerSet {
	return &listenerSet{fns: make(map[uint64]Listener)}
}

// subscribe registers fn and returns an idempotent unsubscribe.
func (l *listenerSet) subscribe(fn Listener) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.order = append(l.order, id)
	l.fns[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.fns[id]; !ok {
			return
		}
		delete(l.fns, id)
		for i, existing := range l.order {
			if existing == id {
				l.order = append(l.order[:i:i], l.order[i+1:]...)
				break
			}
		}
	}
}

func (l *listenerSet) notify(event protocol.Event, state SessionState) {
	l.mu.Lock()
	ids := append([]uint64(nil), l.order...)
	l.mu.Unlock()

	for _, id := range ids {
		l.mu.Lock()
		fn, ok := l.fns[id]
		l.mu.Unlock()
		if ok {
			fn(event, state)
		}
	}
}

// Subscribe registers a listener for every state transition, including the
// synthetic TickEvent and ConnectionClosed notifications. The returned
// function unsubscribes; calling it more than once, or from inside the
// listener itself, is safe.
func (s *Session) Subscribe(fn Listener) func() {
	return s.listeners.subscribe(fn)
}
