package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ciphera/internal/client"
	"ciphera/internal/domain"
)

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish your key bundle to the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if username == "" {
				return errUsernameRequired
			}
			info, err := appCtx.Prekeys.Bundle(passphrase)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			conn, err := dialRelay(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.SetInfo(ctx, info); err != nil {
				return err
			}
			fmt.Println("Published key bundle to relay")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "identity to publish as")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func dialRelay(ctx context.Context) (*client.Conn, error) {
	return client.Dial(ctx, client.WebSocketURL(relayURL, wsPath), domain.Identity(username))
}
