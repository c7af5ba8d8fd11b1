package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciphera/internal/crypto"
)

func initCmd() *cobra.Command {
	var rotate bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate identity and pre-keys and store them securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			keys, err := appCtx.Prekeys.Init(passphrase, rotate)
			if err != nil {
				return err
			}
			fmt.Printf("Keys ready (registration %d, device %d).\nFingerprint: %s\n",
				keys.RegistrationID, keys.DeviceID, crypto.Fingerprint(keys.IdentityPub.Slice()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&rotate, "rotate", false, "replace the signed pre-key and pre-key, keeping the identity")
	return cmd
}
