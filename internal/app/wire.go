package app

import (
	"log/slog"

	"ciphera/internal/relay"
	"ciphera/internal/server"
	"ciphera/internal/store"
)

// Wire bundles the registries, protocol and HTTP server for one relay.
type Wire struct {
	Keys     *store.BundleMemoryStore
	Conns    *store.ConnectionMemoryStore
	Protocol *relay.Protocol
	Server   *server.Server
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log *slog.Logger) *Wire {
	// Process-lifetime registries
	keys := store.NewBundleMemoryStore()
	conns := store.NewConnectionMemoryStore()

	proto := relay.New(keys, conns,
		relay.WithLogger(log),
		relay.WithUndeliverableNotice(cfg.NotifyUndeliverable),
		relay.WithGuardedRelease(cfg.GuardedRelease),
	)

	srv := server.New(proto, keys, server.Options{
		WSPath:         cfg.WSPath,
		PreKeyPolicy:   server.PreKeyPolicy(cfg.PreKeyPolicy),
		MaxFrameBytes:  cfg.MaxFrameBytes,
		WriteTimeout:   cfg.WriteTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
	}, log)

	return &Wire{
		Keys:     keys,
		Conns:    conns,
		Protocol: proto,
		Server:   srv,
	}
}
