package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ciphera/internal/discovery"
)

func discoverCmd() *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find relays advertised on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			seen := make(map[string]bool)
			return discovery.Browse(ctx, func(r discovery.Relay) {
				if seen[r.Addr] {
					return
				}
				seen[r.Addr] = true
				fmt.Printf("%s\t%s\n", r.Name, r.BaseURL())
			})
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 3*time.Second, "how long to browse")
	return cmd
}
