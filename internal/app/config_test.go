package app

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.WSPath != "/" {
		t.Fatalf("expected default ws path, got %q", cfg.WSPath)
	}
	if cfg.PreKeyPolicy != "retain" {
		t.Fatalf("expected retain policy, got %q", cfg.PreKeyPolicy)
	}
	if cfg.MaxFrameBytes != 1<<20 {
		t.Fatalf("expected 1MiB frame limit, got %d", cfg.MaxFrameBytes)
	}
	if cfg.WriteTimeout != 10*time.Second || cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts: %v %v", cfg.WriteTimeout, cfg.ShutdownTimeout)
	}
	if cfg.NotifyUndeliverable || cfg.GuardedRelease || cfg.MDNS {
		t.Fatal("optional features should default off")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("CIPHERA_RELAY_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("CIPHERA_RELAY_PREKEY_POLICY", "consume")
	t.Setenv("CIPHERA_RELAY_NOTIFY_UNDELIVERABLE", "true")
	t.Setenv("CIPHERA_RELAY_GUARDED_RELEASE", "true")
	t.Setenv("CIPHERA_RELAY_ALLOWED_ORIGINS", "example.com,*.example.org")
	t.Setenv("CIPHERA_RELAY_WRITE_TIMEOUT", "2s")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Fatalf("http addr: got %q", cfg.HTTPAddr)
	}
	if cfg.PreKeyPolicy != "consume" || !cfg.NotifyUndeliverable {
		t.Fatalf("policy/notify: %q %v", cfg.PreKeyPolicy, cfg.NotifyUndeliverable)
	}
	if !cfg.GuardedRelease {
		t.Fatal("guarded release should be on")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "*.example.org" {
		t.Fatalf("origins: %v", cfg.AllowedOrigins)
	}
	if cfg.WriteTimeout != 2*time.Second {
		t.Fatalf("write timeout: %v", cfg.WriteTimeout)
	}
}

func TestParseEnvInvalid(t *testing.T) {
	t.Setenv("CIPHERA_RELAY_MAX_FRAME_BYTES", "lots")
	if _, err := ParseEnv(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "policy", mutate: func(c *Config) { c.PreKeyPolicy = "rotate" }, want: "pre-key policy"},
		{name: "frame limit", mutate: func(c *Config) { c.MaxFrameBytes = 0 }, want: "max frame bytes"},
		{name: "relative ws path", mutate: func(c *Config) { c.WSPath = "ws" }, want: "must start with /"},
		{name: "ws path on keys", mutate: func(c *Config) { c.WSPath = "/keys/x" }, want: "collides"},
		{name: "ws path on up", mutate: func(c *Config) { c.WSPath = "/up" }, want: "collides"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, want: "log level"},
		{name: "log format", mutate: func(c *Config) { c.LogFormat = "xml" }, want: "log format"},
		{name: "mdns name", mutate: func(c *Config) { c.MDNS = true; c.MDNSName = "" }, want: "mdns name"},
		{name: "addr", mutate: func(c *Config) { c.HTTPAddr = "" }, want: "http addr"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoggerFormat(t *testing.T) {
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	log, err := cfg.Logger(&buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("expected JSON warn line, got %s", out)
	}
}
