package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nightfall/client/internal/protocol"
	"nightfall/client/internal/reconnect"
)

var (
	// ErrConnectionClosed resolves every pending request when the transport
	// goes away.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrAwaitTimeout resolves a request the server never answered.
	ErrAwaitTimeout = errors.New("timed out waiting for server response")
	// ErrNoTransport is returned by sends before a transport is attached.
	ErrNoTransport = errors.New("no transport attached")
)

// Transport is the one logical connection to the server. The session never
// dials; whoever owns the socket hands it in and pumps inbound frames into
// HandleRaw.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	Close() error
}

// TokenStore persists the reconnect identity across process restarts.
type TokenStore interface {
	Save(token reconnect.Token) error
	Load() (reconnect.Token, bool)
	Purge() error
}

// Session owns the root state and is the only writer to it. The websocket
// read pump and the ticker both funnel through it; reconciliation is
// synchronous and listeners only ever observe post-transition states.
type Session struct {
	log zerolog.Logger

	mu        sync.RWMutex
	state     SessionState
	transport Transport
	tokens    TokenStore
	closed    bool

	listeners *listenerSet
	waiters   map[uint64]*waiter
	nextID    uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithTransport attaches the outbound connection.
func WithTransport(t Transport) Option {
	return func(s *Session) { s.transport = t }
}

// WithTokenStore attaches reconnect token persistence.
func WithTokenStore(store TokenStore) Option {
	return func(s *Session) { s.tokens = store }
}

// New returns a disconnected session.
func New(opts ...Option) *Session {
	s := &Session{
		log:       zerolog.Nop(),
		state:     Disconnected{},
		listeners: newListenerSet(),
		waiters:   make(map[uint64]*waiter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current root. Callers must treat it as read-only.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// HandleRaw decodes and applies one inbound frame. Malformed frames and
// unknown tags are logged and dropped; nothing here panics.
func (s *Session) HandleRaw(raw []byte) {
	event, err := protocol.Decode(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed frame")
		return
	}
	if unknown, ok := event.(protocol.UnknownEvent); ok {
		s.log.Debug().Str("tag", string(unknown.EventTag)).Msg("dropping unknown event")
		return
	}
	s.Apply(event)
}

// Apply folds one event into the root, runs its side effects, resolves any
// waiting request, and notifies listeners.
func (s *Session) Apply(event protocol.Event) {
	s.mu.Lock()
	s.applySideEffects(event)
	s.state = Reduce(s.state, event)
	state := s.state
	s.resolveWaitersLocked(event)
	s.mu.Unlock()

	s.listeners.notify(event, state)
}

// applySideEffects handles the few events whose meaning reaches beyond the
// root state. Caller holds mu.
func (s *Session) applySideEffects(event protocol.Event) {
	switch ev := event.(type) {
	case protocol.AcceptJoin:
		if s.tokens != nil {
			token := reconnect.Token{
				RoomCode: ev.RoomCode,
				PlayerID: ev.PlayerID,
				SavedAt:  time.Now(),
			}
			if err := s.tokens.Save(token); err != nil {
				s.log.Warn().Err(err).Msg("saving reconnect token")
			}
		}
		s.log.Info().
			Uint32("roomCode", ev.RoomCode).
			Uint32("playerId", ev.PlayerID).
			Bool("inGame", ev.InGame).
			Msg("joined room")
	case protocol.RejectJoin:
		// A dead room means the token can never succeed again.
		if ev.Reason == protocol.RejectRoomDoesntExist && s.tokens != nil {
			if err := s.tokens.Purge(); err != nil {
				s.log.Warn().Err(err).Msg("purging reconnect token")
			}
		}
		s.log.Info().Str("reason", string(ev.Reason)).Msg("join rejected")
	case protocol.RateLimitExceeded:
		s.log.Warn().Msg("server is rate limiting this client")
	}
}

// HandleClose reacts to the transport going away: every pending request
// fails, and the root drops to Disconnected. The reconnect token is kept;
// only the server can declare the room gone.
func (s *Session) HandleClose(cause error) {
	s.mu.Lock()
	s.closed = true
	s.state = Disconnected{}
	for id, w := range s.waiters {
		w.fail(ErrConnectionClosed)
		delete(s.waiters, id)
	}
	state := s.state
	s.mu.Unlock()

	if cause != nil {
		s.log.Info().Err(cause).Msg("connection closed")
	} else {
		s.log.Info().Msg("connection closed")
	}
	s.listeners.notify(ConnectionClosed{}, state)
}

// Send encodes and transmits one intent.
func (s *Session) Send(ctx context.Context, intent protocol.Intent) error {
	s.mu.RLock()
	transport := s.transport
	s.mu.RUnlock()
	if transport == nil {
		return ErrNoTransport
	}
	frame, err := protocol.Encode(intent)
	if err != nil {
		return err
	}
	return transport.Send(ctx, frame)
}

// MarkChatRead clears the chat notification flag. Front ends call it when
// the chat panel becomes visible; it changes no other state and emits no
// notification.
func (s *Session) MarkChatRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.state.(Game); ok && g.MissedChatMessages {
		g.MissedChatMessages = false
		s.state = g
	}
}

// Tick advances the local countdown. The server still owns the truth; any
// phaseTimeLeft overwrites whatever ticking produced. Crossing a whole
// second boundary notifies listeners with a synthetic TickEvent.
func (s *Session) Tick(elapsed time.Duration) {
	s.mu.Lock()
	g, ok := s.state.(Game)
	if !ok || !g.Ticking || g.TimeLeftMs == nil {
		s.mu.Unlock()
		return
	}
	before := *g.TimeLeftMs
	after := before - elapsed.Milliseconds()
	if after < 0 {
		after = 0
	}
	g.TimeLeftMs = &after
	s.state = g
	state := s.state
	crossed := before/1000 != after/1000
	s.mu.Unlock()

	if crossed {
		s.listeners.notify(TickEvent{}, state)
	}
}

// TickEvent is the synthetic notification for a whole-second countdown
// boundary. It never comes from the wire.
type TickEvent struct{}

// Tag implements protocol.Event.
func (TickEvent) Tag() protocol.EventTag { return protocol.EventTag("tick") }

// ConnectionClosed is the synthetic notification for transport loss.
type ConnectionClosed struct{}

// Tag implements protocol.Event.
func (ConnectionClosed) Tag() protocol.EventTag { return protocol.EventTag("connectionClosed") }
