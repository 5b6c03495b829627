package client

import (
	"context"
	"time"

	"nightfall/client/internal/game"
	"nightfall/client/internal/protocol"
)

// waiter is a one-shot request resolved by the next inbound event carrying
// one of its tags, by transport close, or by timeout. Whichever comes first
// wins; the rest are ignored.
type waiter struct {
	tags []protocol.EventTag
	done chan waitResult
}

type waitResult struct {
	event protocol.Event
	err   error
}

func (w *waiter) matches(tag protocol.EventTag) bool {
	for _, t := range w.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (w *waiter) fail(err error) {
	select {
	case w.done <- waitResult{err: err}:
	default:
	}
}

func (w *waiter) resolve(event protocol.Event) {
	select {
	case w.done <- waitResult{event: event}:
	default:
	}
}

// resolveWaitersLocked hands event to every waiter whose tag set matches.
// Caller holds mu.
func (s *Session) resolveWaitersLocked(event protocol.Event) {
	for id, w := range s.waiters {
		if w.matches(event.Tag()) {
			w.resolve(event)
			delete(s.waiters, id)
		}
	}
}

// Await blocks until the next inbound event with one of the given tags
// arrives, the transport closes (ErrConnectionClosed), the timeout passes
// (ErrAwaitTimeout), or ctx is done. Waiters never hang.
func (s *Session) Await(ctx context.Context, timeout time.Duration, tags ...protocol.EventTag) (protocol.Event, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrConnectionClosed
	}
	w := &waiter{tags: tags, done: make(chan waitResult, 1)}
	id := s.nextID
	s.nextID++
	s.waiters[id] = w
	s.mu.Unlock()

	remove := func() {
		s.mu.Lock()
		delete(s.waiters, id)
		s.mu.Unlock()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-w.done:
		if result.err != nil {
			return nil, result.err
		}
		return result.event, nil
	case <-timer.C:
		remove()
		return nil, ErrAwaitTimeout
	case <-ctx.Done():
		remove()
		return nil, ctx.Err()
	}
}

// DefaultRequestTimeout bounds how long join-style requests wait for the
// server's verdict.
const DefaultRequestTimeout = 10 * time.Second

func (s *Session) sendAndAwaitJoin(ctx context.Context, intent protocol.Intent) (protocol.Event, error) {
	if err := s.Send(ctx, intent); err != nil {
		return nil, err
	}
	return s.Await(ctx, DefaultRequestTimeout, protocol.EventAcceptJoin, protocol.EventRejectJoin)
}

// Join enters an existing room and waits for the server's verdict.
func (s *Session) Join(ctx context.Context, roomCode game.RoomCode) (protocol.Event, error) {
	return s.sendAndAwaitJoin(ctx, protocol.JoinIntent{RoomCode: roomCode})
}

// Host creates a room and waits for the server's verdict.
func (s *Session) Host(ctx context.Context) (protocol.Event, error) {
	return s.sendAndAwaitJoin(ctx, protocol.HostIntent{})
}

// ReJoin resumes a previous seat with a saved reconnect identity and waits
// for the server's verdict.
func (s *Session) ReJoin(ctx context.Context, roomCode game.RoomCode, playerID game.LobbyClientID) (protocol.Event, error) {
	return s.sendAndAwaitJoin(ctx, protocol.ReJoinIntent{RoomCode: roomCode, PlayerID: playerID})
}
