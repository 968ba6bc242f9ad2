package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "connect", "history"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, cmd.Name())
	}
}

func TestConnectDefaults(t *testing.T) {
	cmd := newConnectCmd()

	addr, err := cmd.Flags().GetString("addr")
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8080/ws", addr)

	show, err := cmd.Flags().GetBool("show-roster")
	require.NoError(t, err)
	require.False(t, show)
}

func TestHistoryRequiresSQLiteDriver(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("chat_log_driver: file\n"), 0o600))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"history", "--config", configPath})

	err := root.Execute()
	require.ErrorContains(t, err, "sqlite")
}

func TestHistoryDoesNotCreateConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"history", "--config", configPath})

	// Defaults select the file driver, so the command refuses to run.
	require.Error(t, root.Execute())
	require.NoFileExists(t, configPath)
}
