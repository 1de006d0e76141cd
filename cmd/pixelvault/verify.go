package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <image> [key]",
	Short: "Verify the integrity of a stego image",
	Long:  `Checks that an image carries a payload and that its envelope opens, without writing the payload anywhere.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		result, found, err := extract(args[0], optionalArg(args, 1))
		if err != nil {
			log.Fatal().Err(err).Msg("Verification failed")
		}
		if !found {
			log.Info().Str("image", args[0]).Msg("No data found in this image")
			return
		}

		fmt.Println("✅ Image verification successful!")
		fmt.Printf("Mode:             %s\n", result.Mode)
		fmt.Printf("Encrypted:        %t\n", result.Encrypted)
		fmt.Printf("Envelope:         %s\n", envelopeFlags)
		fmt.Printf("Payload Size:     %d bytes\n", len(result.Payload))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	addEnvelopeFlags(verifyCmd)
}
