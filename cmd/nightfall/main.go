// Command nightfall is a headless client: it connects to a game server,
// joins or hosts a room, and logs every state transition. It exists for
// soak-testing servers and for driving the client core without a UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"nightfall/client"
	"nightfall/client/internal/config"
	"nightfall/client/internal/game"
	"nightfall/client/internal/net/ws"
	"nightfall/client/internal/protocol"
	"nightfall/client/internal/reconnect"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a config file")
	room := flag.Uint("join", 0, "room code to join; 0 hosts a new room")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := ws.Dial(ctx, ws.Config{
		URL:       cfg.ServerURL,
		Logger:    log,
		SendRate:  rate.Limit(cfg.SendRate),
		SendBurst: cfg.SendBurst,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	opts := []client.Option{
		client.WithLogger(log),
		client.WithTransport(conn),
	}
	var tokens *reconnect.FileStore
	if cfg.ReconnectTokenPath != "" {
		tokens = reconnect.NewFileStore(cfg.ReconnectTokenPath, cfg.ReconnectTTL)
		opts = append(opts, client.WithTokenStore(tokens))
	}
	session := client.New(opts...)

	unsubscribe := session.Subscribe(func(event protocol.Event, state client.SessionState) {
		log.Debug().
			Str("event", string(event.Tag())).
			Str("state", string(state.Kind())).
			Msg("transition")
	})
	defer unsubscribe()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.Run(session.HandleRaw, session.HandleClose)
	}()

	go runTicker(ctx, session, cfg.TickInterval)

	if err := enterRoom(ctx, session, tokens, cfg, game.RoomCode(*room), log); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case <-readDone:
		log.Info().Msg("server closed the connection")
	}
	return nil
}

// enterRoom tries the saved reconnect identity first, then falls back to a
// fresh join or host.
func enterRoom(ctx context.Context, session *client.Session, tokens *reconnect.FileStore, cfg config.Config, room game.RoomCode, log zerolog.Logger) error {
	if tokens != nil {
		if token, ok := tokens.Load(); ok {
			event, err := session.ReJoin(ctx, token.RoomCode, token.PlayerID)
			if err == nil {
				if _, accepted := event.(protocol.AcceptJoin); accepted {
					log.Info().Uint32("roomCode", token.RoomCode).Msg("rejoined")
					return nil
				}
			}
			log.Info().Msg("rejoin failed, joining fresh")
		}
	}

	var event protocol.Event
	var err error
	if room == 0 {
		event, err = session.Host(ctx)
	} else {
		event, err = session.Join(ctx, room)
	}
	if err != nil {
		return err
	}
	if reject, ok := event.(protocol.RejectJoin); ok {
		return fmt.Errorf("join rejected: %s", reject.Reason)
	}

	if cfg.Name != "" {
		if err := session.Send(ctx, protocol.SetNameIntent{Name: cfg.Name}); err != nil {
			return err
		}
	}
	return nil
}

func runTicker(ctx context.Context, session *client.Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			session.Tick(now.Sub(last))
			last = now
		}
	}
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
	}
	var log zerolog.Logger
	if cfg.LogFormat == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}
