package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat/internal/auth"
	"github.com/vovakirdan/linechat/internal/config"
	"github.com/vovakirdan/linechat/internal/core"
	"github.com/vovakirdan/linechat/internal/store"
	"github.com/vovakirdan/linechat/internal/store/file"
	"github.com/vovakirdan/linechat/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/linechat/internal/transport/http"
)

const sinkWriteTimeout = 2 * time.Second

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	peers           *transporthttp.Peers
	chatLog         store.ChatLog
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.AdminPassword == config.DefaultAdminPassword {
		logger.Warn().Msg("admin_password is still the default, change it before exposing the server")
	}

	secret, err := auth.NewSecret(cfg.AdminPassword, auth.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	chatLog, err := openChatLog(cfg)
	if err != nil {
		return nil, fmt.Errorf("open chat log: %w", err)
	}
	logger.Info().Str("driver", cfg.ChatLogDriver).Str("path", cfg.ChatLogPath).Msg("chat log ready")

	var sink core.LogSink = core.DiscardSink{}
	if chatLog != nil {
		sink = &sinkWriter{log: chatLog, logger: logger}
	}

	peers := transporthttp.NewPeers()
	hub := core.NewHub(core.Options{
		Transport:      peers,
		Admin:          core.NewAdmin(secret),
		Sink:           sink,
		TypingInterval: cfg.TypingThrottle,
		Logger:         logger,
	})
	server := transporthttp.NewServer(hub, peers, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		peers:           peers,
		chatLog:         chatLog,
		log:             logger,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		closed := a.peers.CloseAll()
		a.log.Info().Int("connections", closed).Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		// Shutdown does not wait for hijacked websockets; their teardown
		// still writes to the chat log.
		if err := a.peers.Wait(shutdownCtx); err != nil {
			a.log.Warn().Err(err).Msg("websocket teardown did not finish")
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the chat log.
func (a *App) cleanup() {
	if a.chatLog == nil {
		return
	}
	if err := a.chatLog.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close chat log")
	} else {
		a.log.Info().Msg("chat log closed")
	}
}

func openChatLog(cfg *config.Config) (store.ChatLog, error) {
	switch cfg.ChatLogDriver {
	case store.DriverFile:
		return file.Open(cfg.ChatLogPath)
	case store.DriverSQLite:
		return sqlite.New(cfg.ChatLogPath)
	case store.DriverNone:
		return nil, nil
	default:
		return nil, store.ValidDriver(cfg.ChatLogDriver)
	}
}

// sinkWriter adapts a ChatLog to the hub's fire-and-forget sink. Failures are
// logged and never reach the chat.
type sinkWriter struct {
	log    store.ChatLog
	logger *zerolog.Logger
}

func (s *sinkWriter) Write(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
	defer cancel()
	if err := s.log.Append(ctx, line); err != nil {
		s.logger.Error().Err(err).Msg("append chat log")
	}
}
