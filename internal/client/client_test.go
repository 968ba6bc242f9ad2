package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/linechat/internal/config"
	"github.com/vovakirdan/linechat/internal/core"
	"github.com/vovakirdan/linechat/internal/proto"
	transporthttp "github.com/vovakirdan/linechat/internal/transport/http"
)

func startServer(t *testing.T) string {
	t.Helper()

	logger := zerolog.Nop()
	peers := transporthttp.NewPeers()
	hub := core.NewHub(core.Options{Transport: peers, Logger: &logger})
	cfg := config.Default()
	server := transporthttp.NewServer(hub, peers, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		peers.CloseAll()
		ts.Close()
	})
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func TestRunSessionUntilExit(t *testing.T) {
	addr := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := Run(ctx, Options{
		Addr:       addr,
		ShowRoster: true,
		In:         strings.NewReader("Alice\n\n/lastseen\nexit\n"),
		Out:        &out,
	})
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, proto.NicknamePrompt)
	require.Contains(t, text, proto.Welcome("Alice"))
	require.Contains(t, text, proto.LastSeenHeader)
	require.Contains(t, text, "Alice")
}

func TestRunDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := Run(ctx, Options{
		Addr: "ws://127.0.0.1:1/ws",
		In:   strings.NewReader(""),
		Out:  &bytes.Buffer{},
	})
	require.Error(t, err)
}
