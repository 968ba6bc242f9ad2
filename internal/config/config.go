package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/linechat/internal/store"
)

// DefaultAdminPassword is the placeholder written to fresh config files.
const DefaultAdminPassword = "changeme"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`
	AdminPassword     string        `mapstructure:"admin_password" yaml:"admin_password"`
	ChatLogDriver     string        `mapstructure:"chat_log_driver" yaml:"chat_log_driver"`
	ChatLogPath       string        `mapstructure:"chat_log_path" yaml:"chat_log_path"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	SendBuffer        int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	TypingThrottle    time.Duration `mapstructure:"typing_throttle" yaml:"typing_throttle"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		AdminPassword:     DefaultAdminPassword,
		ChatLogDriver:     store.DriverFile,
		ChatLogPath:       "chat.log",
		MaxMessageBytes:   64 << 10,
		SendBuffer:        64,
		TypingThrottle:    time.Second,
	}
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.AdminPassword == "" {
		return errors.New("admin_password is required")
	}
	if err := store.ValidDriver(c.ChatLogDriver); err != nil {
		return err
	}
	if c.ChatLogDriver != store.DriverNone && c.ChatLogPath == "" {
		return fmt.Errorf("chat_log_path is required for driver %q", c.ChatLogDriver)
	}
	if c.MaxMessageBytes <= 0 {
		return errors.New("max_message_bytes must be positive")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	if c.TypingThrottle < 0 {
		return errors.New("typing_throttle must not be negative")
	}
	return nil
}
