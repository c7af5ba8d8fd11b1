package commands

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ciphera/internal/client"
	"ciphera/internal/services/prekey"
	"ciphera/internal/store"
)

// cliContext is the dependency graph shared by subcommands.
type cliContext struct {
	Prekeys *prekey.Service
	Keys    *client.HTTP
}

var (
	home       string
	passphrase string
	appCtx     *cliContext

	relayURL string
	wsPath   string
	username string
	timeout  time.Duration
)

func Execute() error {
	root := &cobra.Command{
		Use:          "ciphera",
		Short:        "Client for the ciphera key and message relay",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".ciphera")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			ks := store.NewKeyFileStore(home)
			appCtx = &cliContext{
				Prekeys: prekey.New(ks),
				Keys:    client.NewHTTP(relayURL, &http.Client{Timeout: timeout}),
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.ciphera)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:3000", "relay base URL")
	root.PersistentFlags().StringVar(&wsPath, "ws-path", "/", "relay WebSocket path")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		publishCmd(),
		fetchCmd(),
		sendCmd(),
		listenCmd(),
		discoverCmd(),
	)
	return root.Execute()
}

func requirePassphrase() error {
	if passphrase == "" {
		return errPassphraseRequired
	}
	return nil
}

type errString string

func (e errString) Error() string { return string(e) }

const (
	errPassphraseRequired = errString("passphrase required (-p)")
	errUsernameRequired   = errString("--username required")
)
