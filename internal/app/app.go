package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"ciphera/internal/discovery"
)

// App is a configured relay ready to serve.
type App struct {
	cfg  Config
	log  *slog.Logger
	wire *Wire
}

// New validates cfg and builds the relay.
func New(cfg Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &App{cfg: cfg, log: log, wire: NewWire(cfg, log)}, nil
}

// Wire exposes the built dependency graph.
func (a *App) Wire() *Wire { return a.wire }

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.HTTPAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: a.wire.Server.Handler()}

	if a.cfg.MDNS {
		if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
			ad, err := discovery.Advertise(a.cfg.MDNSName, tcp.Port)
			if err != nil {
				// The relay works without it; only local discovery is lost.
				a.log.Warn("mdns advertise failed", "err", err)
			} else {
				defer ad.Close()
				a.log.Info("mdns advertising", "name", a.cfg.MDNSName, "type", discovery.ServiceType, "port", tcp.Port)
			}
		}
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("relay listening", "addr", ln.Addr().String(), "ws_path", a.cfg.WSPath, "prekey_policy", a.cfg.PreKeyPolicy)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("relay shutting down", "connected", a.wire.Protocol.Connected())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	a.wire.Server.CloseConnections()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
