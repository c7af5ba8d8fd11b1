package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ciphera/internal/client"
	"ciphera/internal/crypto"
	"ciphera/internal/domain"
)

// fetch <identity>: print the key bundle the relay holds for <identity>.
func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <identity>",
		Short: "Fetch a peer's published key bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			info, err := appCtx.Keys.FetchKeys(ctx, domain.Identity(args[0]))
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("no key bundle published for %q", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Identity key fingerprint: %s\n", crypto.Fingerprint(info.Bundle.IdentityKey))
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
