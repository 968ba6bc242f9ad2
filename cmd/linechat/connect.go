package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/linechat/internal/client"
	applog "github.com/vovakirdan/linechat/internal/log"
)

func newConnectCmd() *cobra.Command {
	var (
		addr       string
		showRoster bool
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Chat from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				level = "warn"
			}
			logger := applog.NewWithWriter(os.Stderr, level, "console")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(os.Stderr, "Connecting to %s. Type exit to leave.\n", addr)
			return client.Run(ctx, client.Options{
				Addr:       addr,
				ShowRoster: showRoster,
				In:         os.Stdin,
				Out:        os.Stdout,
				Logger:     logger,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8080/ws", "WebSocket address")
	cmd.Flags().BoolVar(&showRoster, "show-roster", false, "print the online roster whenever it changes")
	return cmd
}
