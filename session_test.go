package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nightfall/client/internal/game"
	"nightfall/client/internal/protocol"
	"nightfall/client/internal/reconnect"
)

type fakeTransport struct {
	mu     sync.Mutex
	frames [][]byte
}

func (f *fakeTransport) Send(_ context.Context, frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, append([]byte(nil), frame...))
	return nil
}

func (f *fakeTransport) Close() error { return nil }

type fakeTokens struct {
	mu     sync.Mutex
	token  *reconnect.Token
	purged bool
}

func (f *fakeTokens) Save(token reconnect.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = &token
	return nil
}

func (f *fakeTokens) Load() (reconnect.Token, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == nil {
		return reconnect.Token{}, false
	}
	return *f.token, true
}

func (f *fakeTokens) Purge() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = nil
	f.purged = true
	return nil
}

func TestHandleRawToleratesGarbageAndUnknownTags(t *testing.T) {
	s := New()
	s.HandleRaw([]byte(`{"type":`))
	s.HandleRaw([]byte(`{"type":"somethingFromTheFuture","x":1}`))
	if _, ok := s.State().(Disconnected); !ok {
		t.Fatalf("expected state untouched, got %T", s.State())
	}
}

func TestAwaitResolvedByMatchingEvent(t *testing.T) {
	s := New(WithTransport(&fakeTransport{}))

	done := make(chan error, 1)
	go func() {
		event, err := s.Await(context.Background(), time.Second, protocol.EventAcceptJoin, protocol.EventRejectJoin)
		if err != nil {
			done <- err
			return
		}
		if _, ok := event.(protocol.AcceptJoin); !ok {
			done <- errors.New("wrong event type")
			return
		}
		done <- nil
	}()

	// give the waiter time to register
	time.Sleep(10 * time.Millisecond)
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2})

	if err := <-done; err != nil {
		t.Fatalf("expected accept to resolve waiter, got %v", err)
	}
}

func TestAwaitTimesOut(t *testing.T) {
	s := New()
	_, err := s.Await(context.Background(), 20*time.Millisecond, protocol.EventAcceptJoin)
	if !errors.Is(err, ErrAwaitTimeout) {
		t.Fatalf("expected ErrAwaitTimeout, got %v", err)
	}
}

func TestCloseFailsAllWaiters(t *testing.T) {
	s := New()

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := s.Await(context.Background(), time.Second, protocol.EventAcceptJoin)
			results <- err
		}()
	}
	time.Sleep(10 * time.Millisecond)
	s.HandleClose(nil)

	for i := 0; i < 2; i++ {
		if err := <-results; !errors.Is(err, ErrConnectionClosed) {
			t.Fatalf("expected ErrConnectionClosed, got %v", err)
		}
	}
	if _, ok := s.State().(Disconnected); !ok {
		t.Fatalf("expected Disconnected after close, got %T", s.State())
	}

	if _, err := s.Await(context.Background(), time.Second, protocol.EventAcceptJoin); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected immediate ErrConnectionClosed after close, got %v", err)
	}
}

func TestMarkChatReadClearsMissedFlag(t *testing.T) {
	s := New()
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2, InGame: true})
	s.Apply(protocol.AddChatMessages{Messages: []game.ChatMessage{
		{Variant: game.NormalMessage{Sender: 0, Text: "hi"}},
	}})

	if !s.State().(Game).MissedChatMessages {
		t.Fatalf("expected missed chat flag after new messages")
	}
	s.MarkChatRead()
	if s.State().(Game).MissedChatMessages {
		t.Fatalf("expected missed chat flag cleared after MarkChatRead")
	}
}

func TestTickClampsAtZero(t *testing.T) {
	s := New()
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2, InGame: true})
	s.Apply(protocol.PhaseTimeLeft{Milliseconds: ms(500)})

	s.Tick(2 * time.Second)
	g := s.State().(Game)
	if g.TimeLeftMs == nil || *g.TimeLeftMs != 0 {
		t.Fatalf("expected countdown clamped at 0, got %v", g.TimeLeftMs)
	}

	s.Tick(time.Second)
	g = s.State().(Game)
	if *g.TimeLeftMs != 0 {
		t.Fatalf("expected countdown to stay at 0, got %d", *g.TimeLeftMs)
	}
}

func TestTickEmitsOnWholeSecondBoundary(t *testing.T) {
	s := New()
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2, InGame: true})
	s.Apply(protocol.PhaseTimeLeft{Milliseconds: ms(2100)})

	var ticks int
	unsubscribe := s.Subscribe(func(event protocol.Event, _ SessionState) {
		if _, ok := event.(TickEvent); ok {
			ticks++
		}
	})
	defer unsubscribe()

	s.Tick(50 * time.Millisecond) // 2100 -> 2050, same second
	if ticks != 0 {
		t.Fatalf("expected no tick inside a second, got %d", ticks)
	}
	s.Tick(100 * time.Millisecond) // 2050 -> 1950, crosses 2s
	if ticks != 1 {
		t.Fatalf("expected one tick on boundary, got %d", ticks)
	}
}

func TestTickIsNoOpWhenUntimed(t *testing.T) {
	s := New()
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2, InGame: true})
	s.Apply(protocol.PhaseTimeLeft{Milliseconds: nil})

	s.Tick(time.Second)
	g := s.State().(Game)
	if g.TimeLeftMs != nil {
		t.Fatalf("expected untimed phase to stay untimed, got %v", g.TimeLeftMs)
	}
}

func TestServerCountdownOverwritesLocalTicking(t *testing.T) {
	s := New()
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2, InGame: true})
	s.Apply(protocol.PhaseTimeLeft{Milliseconds: ms(5000)})
	s.Tick(3 * time.Second)

	s.Apply(protocol.PhaseTimeLeft{Milliseconds: ms(9000)})
	g := s.State().(Game)
	if g.TimeLeftMs == nil || *g.TimeLeftMs != 9000 {
		t.Fatalf("expected server value to win, got %v", g.TimeLeftMs)
	}
}

func TestUnsubscribeDuringNotifyIsSafe(t *testing.T) {
	s := New()

	var calls []string
	var unsubB func()
	s.Subscribe(func(protocol.Event, SessionState) {
		calls = append(calls, "a")
		unsubB()
	})
	unsubB = s.Subscribe(func(protocol.Event, SessionState) {
		calls = append(calls, "b")
	})
	s.Subscribe(func(protocol.Event, SessionState) {
		calls = append(calls, "c")
	})

	s.Apply(protocol.LobbyList{})

	want := []string{"a", "c"}
	if len(calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, calls)
		}
	}

	// unsubscribing again is a no-op
	unsubB()
}

func TestAcceptJoinSavesTokenRejectPurges(t *testing.T) {
	tokens := &fakeTokens{}
	s := New(WithTokenStore(tokens))

	s.Apply(protocol.AcceptJoin{RoomCode: 7, PlayerID: 3})
	saved, ok := tokens.Load()
	if !ok {
		t.Fatalf("expected token saved on acceptJoin")
	}
	if saved.RoomCode != 7 || saved.PlayerID != 3 {
		t.Fatalf("unexpected token %#v", saved)
	}

	s.Apply(protocol.RejectJoin{Reason: protocol.RejectRoomFull})
	if _, ok := tokens.Load(); !ok {
		t.Fatalf("expected roomFull to keep the token")
	}

	s.Apply(protocol.RejectJoin{Reason: protocol.RejectRoomDoesntExist})
	if _, ok := tokens.Load(); ok {
		t.Fatalf("expected roomDoesntExist to purge the token")
	}
}

func TestJoinSendsIntentAndAwaitsVerdict(t *testing.T) {
	transport := &fakeTransport{}
	s := New(WithTransport(transport))

	done := make(chan error, 1)
	go func() {
		event, err := s.Join(context.Background(), 42)
		if err != nil {
			done <- err
			return
		}
		if reject, ok := event.(protocol.RejectJoin); !ok || reject.Reason != protocol.RejectRoomFull {
			done <- errors.New("wrong verdict")
			return
		}
		done <- nil
	}()

	time.Sleep(10 * time.Millisecond)
	transport.mu.Lock()
	frames := len(transport.frames)
	transport.mu.Unlock()
	if frames != 1 {
		t.Fatalf("expected one outbound frame, got %d", frames)
	}
	s.HandleRaw([]byte(`{"type":"rejectJoin","reason":"roomFull"}`))

	if err := <-done; err != nil {
		t.Fatalf("expected reject verdict, got %v", err)
	}
}

func TestSendWithoutTransport(t *testing.T) {
	s := New()
	if err := s.Send(context.Background(), protocol.PingIntent{}); !errors.Is(err, ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
}

func TestSpectatorIgnoresParticipantEvents(t *testing.T) {
	s := New()
	s.Apply(protocol.AcceptJoin{RoomCode: 1, PlayerID: 2, InGame: true, Spectator: true})
	s.Apply(protocol.YourRoleState{RoleState: game.VigilanteState{Bullets: 1}})

	g := s.State().(Game)
	if g.Participant() != nil {
		t.Fatalf("expected spectator to have no participant state")
	}
}
