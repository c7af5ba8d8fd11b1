package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ciphera/internal/app"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg, envErr := app.ParseEnv()

	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Key bundle directory and live message relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			log, err := cfg.Logger(os.Stderr)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := a.Run(ctx); err != nil {
				log.Error("relay stopped", "err", err)
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	// Flags override environment values.
	f := cmd.Flags()
	f.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	f.StringVar(&cfg.WSPath, "ws-path", cfg.WSPath, "WebSocket upgrade path")
	f.StringVar(&cfg.PreKeyPolicy, "prekey-policy", cfg.PreKeyPolicy, "pre-key handling on fetch: retain or consume")
	f.BoolVar(&cfg.NotifyUndeliverable, "notify-undeliverable", cfg.NotifyUndeliverable, "tell senders when a target is offline")
	f.BoolVar(&cfg.GuardedRelease, "guarded-release", cfg.GuardedRelease, "on disconnect, keep an identity registered if a newer connection owns it")
	f.Int64Var(&cfg.MaxFrameBytes, "max-frame-bytes", cfg.MaxFrameBytes, "largest inbound frame accepted")
	f.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "timeout for each outbound frame")
	f.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "grace period on shutdown")
	f.StringSliceVar(&cfg.AllowedOrigins, "allowed-origin", cfg.AllowedOrigins, "extra Origin host pattern accepted for WebSocket upgrades (repeatable)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	f.BoolVar(&cfg.MDNS, "mdns", cfg.MDNS, "advertise the relay over mDNS")
	f.StringVar(&cfg.MDNSName, "mdns-name", cfg.MDNSName, "mDNS instance name")
	return cmd
}
