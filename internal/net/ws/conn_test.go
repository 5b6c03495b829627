package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startEchoServer(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			messageType, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType, frame); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialSendReceive(t *testing.T) {
	url := startEchoServer(t)
	conn, err := Dial(context.Background(), Config{URL: url})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	frames := make(chan []byte, 1)
	closed := make(chan error, 1)
	go conn.Run(func(frame []byte) {
		select {
		case frames <- append([]byte(nil), frame...):
		default:
		}
	}, func(cause error) {
		closed <- cause
	})

	if err := conn.Send(context.Background(), []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case frame := <-frames:
		if string(frame) != `{"type":"ping"}` {
			t.Fatalf("unexpected echo %s", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for echo")
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for close callback")
	}

	if err := conn.Send(context.Background(), []byte("late")); err == nil {
		t.Fatalf("expected error sending on closed connection")
	}
}

func TestRunCallsOnCloseOnceOnServerClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	conn, err := Dial(context.Background(), Config{URL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})
	go conn.Run(func([]byte) {}, func(error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for close callback")
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected one close callback, got %d", calls)
	}
}

func TestConcurrentSendsAreSerialized(t *testing.T) {
	url := startEchoServer(t)
	conn, err := Dial(context.Background(), Config{URL: url, SendRate: 1000, SendBurst: 100})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	received := make(chan []byte, 16)
	go conn.Run(func(frame []byte) {
		received <- append([]byte(nil), frame...)
	}, func(error) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := conn.Send(context.Background(), []byte(`{"type":"ping"}`)); err != nil {
				t.Errorf("send: %v", err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for echo %d", i)
		}
	}
}
