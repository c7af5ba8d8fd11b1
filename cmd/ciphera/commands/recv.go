package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ciphera/internal/client"
	"ciphera/internal/domain"
)

// listen: stay connected as --username and print relayed messages.
func listenCmd() *cobra.Command {
	var publish, fromStdin bool
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Stay connected and print messages relayed to you",
		Long: `Stay connected and print messages relayed to you.

With --stdin, each input line "<peer> <message>" is sent over the same
connection. Use that rather than a separate "send" while listening: the
relay keeps one connection per identity, so another connection under the
same --username takes over delivery from this one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errUsernameRequired
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dialCtx, cancel := context.WithTimeout(ctx, timeout)
			conn, err := dialRelay(dialCtx)
			cancel()
			if err != nil {
				return err
			}
			defer conn.CloseNow()

			if publish {
				if err := requirePassphrase(); err != nil {
					return err
				}
				info, err := appCtx.Prekeys.Bundle(passphrase)
				if err != nil {
					return err
				}
				if err := conn.SetInfo(ctx, info); err != nil {
					return err
				}
				fmt.Println("Published key bundle to relay")
			}

			if fromStdin {
				go sendLines(ctx, conn, os.Stdin)
			}

			for {
				ev, err := conn.Receive(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				switch ev.Event {
				case domain.EventMessage:
					fmt.Printf("%s\n", ev.Data)
				case domain.EventUndeliverable:
					fmt.Printf("undeliverable: %s\n", ev.Data)
				}
			}
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "identity to connect as")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish your key bundle after connecting")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, `send "<peer> <message>" lines from stdin over this connection`)
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// sendLines relays each "<peer> <message>" line from r until r ends or ctx is done.
func sendLines(ctx context.Context, conn *client.Conn, r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		peer, text, ok := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		if !ok || peer == "" {
			fmt.Fprintln(os.Stderr, `expected "<peer> <message>"`)
			continue
		}
		payload, err := json.Marshal(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if err := conn.SendMessage(ctx, domain.Identity(peer), payload); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
	}
}
