package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"ciphera/internal/server"
)

// Config holds runtime options for the relay process.
type Config struct {
	HTTPAddr            string        `env:"CIPHERA_RELAY_HTTP_ADDR"            envDefault:":3000"`
	WSPath              string        `env:"CIPHERA_RELAY_WS_PATH"              envDefault:"/"`
	PreKeyPolicy        string        `env:"CIPHERA_RELAY_PREKEY_POLICY"        envDefault:"retain"`
	NotifyUndeliverable bool          `env:"CIPHERA_RELAY_NOTIFY_UNDELIVERABLE" envDefault:"false"`
	GuardedRelease      bool          `env:"CIPHERA_RELAY_GUARDED_RELEASE"      envDefault:"false"`
	MaxFrameBytes       int64         `env:"CIPHERA_RELAY_MAX_FRAME_BYTES"      envDefault:"1048576"`
	WriteTimeout        time.Duration `env:"CIPHERA_RELAY_WRITE_TIMEOUT"        envDefault:"10s"`
	ShutdownTimeout     time.Duration `env:"CIPHERA_RELAY_SHUTDOWN_TIMEOUT"     envDefault:"5s"`
	AllowedOrigins      []string      `env:"CIPHERA_RELAY_ALLOWED_ORIGINS"      envSeparator:","`
	LogLevel            string        `env:"CIPHERA_RELAY_LOG_LEVEL"            envDefault:"info"`
	LogFormat           string        `env:"CIPHERA_RELAY_LOG_FORMAT"           envDefault:"text"`
	MDNS                bool          `env:"CIPHERA_RELAY_MDNS"                 envDefault:"false"`
	MDNSName            string        `env:"CIPHERA_RELAY_MDNS_NAME"            envDefault:"ciphera-relay"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first option that cannot work.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http addr is required")
	}
	if !server.PreKeyPolicy(c.PreKeyPolicy).Valid() {
		return fmt.Errorf("unknown pre-key policy %q (want retain or consume)", c.PreKeyPolicy)
	}
	if c.MaxFrameBytes <= 0 {
		return fmt.Errorf("max frame bytes must be positive, got %d", c.MaxFrameBytes)
	}
	if !strings.HasPrefix(c.WSPath, "/") {
		return fmt.Errorf("websocket path %q must start with /", c.WSPath)
	}
	if c.WSPath == "/up" || strings.HasPrefix(c.WSPath, "/keys/") || c.WSPath == "/keys" {
		return fmt.Errorf("websocket path %q collides with an HTTP route", c.WSPath)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if c.MDNS && c.MDNSName == "" {
		return fmt.Errorf("mdns name is required when mdns is enabled")
	}
	return nil
}

// Logger builds the process logger described by c, writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
