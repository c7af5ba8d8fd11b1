package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print identity fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			fp, err := appCtx.Prekeys.Fingerprint(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Fingerprint: %s\n", fp)
			return nil
		},
	}
}
