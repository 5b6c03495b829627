// Package ws owns the websocket link to the game server: dialing, the read
// pump, rate-limited writes and close handling. It moves frames, nothing
// else; decoding belongs to the protocol layer.
package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config tunes one connection.
type Config struct {
	// URL is the ws:// or wss:// endpoint.
	URL string
	// Logger defaults to a no-op logger.
	Logger zerolog.Logger
	// SendRate caps outbound frames per second; the server drops clients
	// that flood it. Zero means 25/s.
	SendRate rate.Limit
	// SendBurst is the limiter burst. Zero means 50.
	SendBurst int
	// PongTimeout is how long a silent connection lives. Zero means 60s.
	PongTimeout time.Duration
}

const (
	defaultSendRate    rate.Limit = 25
	defaultSendBurst              = 50
	defaultPongTimeout            = 60 * time.Second
	writeTimeout                  = 10 * time.Second
)

// ErrConnClosed is returned by Send after the connection is gone.
var ErrConnClosed = errors.New("websocket connection closed")

// Conn is one live connection. Safe for one concurrent reader (Run) and any
// number of senders.
type Conn struct {
	conn    *websocket.Conn
	log     zerolog.Logger
	limiter *rate.Limiter

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}

	pongTimeout time.Duration
}

// Dial opens a connection to cfg.URL.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	if cfg.SendRate == 0 {
		cfg.SendRate = defaultSendRate
	}
	if cfg.SendBurst == 0 {
		cfg.SendBurst = defaultSendBurst
	}
	if cfg.PongTimeout == 0 {
		cfg.PongTimeout = defaultPongTimeout
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	return &Conn{
		conn:        conn,
		log:         cfg.Logger,
		limiter:     rate.NewLimiter(cfg.SendRate, cfg.SendBurst),
		closed:      make(chan struct{}),
		pongTimeout: cfg.PongTimeout,
	}, nil
}

// Send writes one text frame, waiting on the rate limiter first.
func (c *Conn) Send(ctx context.Context, frame []byte) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.markClosed()
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Run is the read pump. It calls onFrame for every inbound text frame and
// onClose exactly once when the connection dies, then returns. Callers run
// it on its own goroutine; it is the only reader.
func (c *Conn) Run(onFrame func([]byte), onClose func(error)) {
	c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	})

	var cause error
	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cause = err
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
		if messageType != websocket.TextMessage {
			continue
		}
		onFrame(frame)
	}

	c.markClosed()
	c.conn.Close()
	onClose(cause)
}

// Close tears the connection down. Run's onClose still fires.
func (c *Conn) Close() error {
	c.markClosed()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	deadline := time.Now().Add(writeTimeout)
	if err := c.conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		c.log.Debug().Err(err).Msg("writing close frame")
	}
	return c.conn.Close()
}

func (c *Conn) markClosed() {
	c.closeOnce.Do(func() { close(c.closed) })
}
