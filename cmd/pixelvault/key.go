package main

import (
	"fmt"

	"github.com/andresmejia3/pixelvault/pkg/keys"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	keyFlags struct {
		Size int
		Pass string
		Out  string
	}
)

var keyCmd = &cobra.Command{
	Use:   "key <name>",
	Short: "Generate an AES key file",
	Long:  `Writes a random IV and AES key to keys/<name>.key, or derives the key from a passphrase with PBKDF2.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runKey(args[0]); err != nil {
			log.Fatal().Err(err).Msg("Error generating key")
		}
	},
}

func runKey(name string) error {
	out := keyFlags.Out
	if out == "" {
		out = keys.DefaultPath(name)
	}
	log.Info().Int("bytes", keyFlags.Size).Str("output", out).Msg("Generating key...")

	var err error
	if keyFlags.Pass != "" {
		_, err = keys.GenerateFromPassphrase(out, keyFlags.Pass, keyFlags.Size, nil)
	} else {
		_, err = keys.Generate(out, keyFlags.Size, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	log.Info().Msg("Key generated successfully")
	return nil
}

func init() {
	rootCmd.AddCommand(keyCmd)

	// Shared with the root --key surface.
	for _, cmd := range []*cobra.Command{rootCmd, keyCmd} {
		cmd.Flags().IntVarP(&keyFlags.Size, "key-size", "n", keys.DefaultKeySize, "Key length in bytes (16, 24 or 32)")
		cmd.Flags().StringVarP(&keyFlags.Pass, "passphrase", "p", "", "Derive the key from a passphrase instead of random bytes")
	}
	keyCmd.Flags().StringVarP(&keyFlags.Out, "output", "o", "", "Output path for the key (default: keys/<name>.key)")
}
