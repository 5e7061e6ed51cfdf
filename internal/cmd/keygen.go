package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/token"
)

func newKeygenCmd() *cobra.Command {
	var size int
	c := &cobra.Command{
		Use:   "keygen",
		Short: "Print a random base64 signing key for JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < token.MinKeyBytes {
				return fmt.Errorf("key size must be at least %d bytes", token.MinKeyBytes)
			}
			buf := make([]byte, size)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("read random bytes: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(buf))
			return err
		},
	}
	c.Flags().IntVar(&size, "bytes", token.MinKeyBytes, "key length in bytes")
	return c
}
