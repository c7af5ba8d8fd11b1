package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ciphera/internal/domain"
)

// send <peer> <message>: hand an already-encrypted message to <peer> via the relay.
func sendCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Relay a message to a connected peer",
		Long: `Relay a message to a connected peer.

send opens its own short-lived connection as --username. The relay keeps one
connection per identity, so while "listen" runs under the same name this
connection takes over delivery and the listener stops receiving. Send with
"listen --stdin" in that case.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errUsernameRequired
			}
			peer := domain.Identity(args[0])

			var payload json.RawMessage
			if raw {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("--raw message is not valid JSON")
				}
				payload = json.RawMessage(args[1])
			} else {
				b, err := json.Marshal(args[1])
				if err != nil {
					return err
				}
				payload = b
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			conn, err := dialRelay(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.SendMessage(ctx, peer, payload); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "identity to send as")
	cmd.Flags().BoolVar(&raw, "raw", false, "treat <message> as a JSON value instead of a string")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
