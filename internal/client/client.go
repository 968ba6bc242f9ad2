// Package client is a terminal client for the line protocol: stdin lines go
// out as text frames, server frames are rendered to the terminal.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

const drainTimeout = 2 * time.Second

// Options configures a client session.
type Options struct {
	Addr       string
	ShowRoster bool
	In         io.Reader
	Out        io.Writer
	Logger     *zerolog.Logger
}

// Run connects to opts.Addr and relays until the server closes the
// connection, input ends or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, opts.Addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.Addr, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	logger.Debug().Str("addr", opts.Addr).Msg("connected")

	renderer := NewRenderer(opts.Out, opts.ShowRoster)
	readErr := make(chan error, 1)
	go func() {
		defer cancel()
		readErr <- readLoop(ctx, conn, renderer, logger)
	}()

	if err := writeLoop(ctx, conn, opts.In); err != nil {
		logger.Debug().Err(err).Msg("write loop stopped")
	}
	// Input is exhausted; give the server a moment to answer the last lines.
	select {
	case <-ctx.Done():
	case <-time.After(drainTimeout):
	}
	cancel()
	return <-readErr
}

func readLoop(ctx context.Context, conn *websocket.Conn, renderer *Renderer, logger *zerolog.Logger) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if typ != websocket.MessageText {
			continue
		}
		if err := renderer.Render(string(data)); err != nil {
			logger.Warn().Err(err).Msg("render frame")
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
				return fmt.Errorf("send: %w", err)
			}
		}
	}
}
