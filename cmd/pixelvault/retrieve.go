package main

import (
	"fmt"
	"os"

	"github.com/andresmejia3/pixelvault/pkg/envelope"
	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	retrieveFlags struct {
		Out string
	}
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <image> [key]",
	Short: "Extract the file hidden in an image",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRetrieve(args[0], optionalArg(args, 1)); err != nil {
			log.Fatal().Err(err).Msg("Failed to retrieve file")
		}
	},
}

// extract decodes the payload and opens its envelope. found is false when the
// image carries nothing under the configured marker and key.
func extract(imagePath, keyArg string) (result stego.Result, found bool, err error) {
	buf, _, err := imageio.Load(imagePath)
	if err != nil {
		return result, false, fmt.Errorf("failed to load image: %w", err)
	}
	key, err := loadKey(keyArg)
	if err != nil {
		return result, false, err
	}

	inspector, err := stego.NewDecoder(engineConfig(nil))
	if err != nil {
		return result, false, err
	}
	info, err := inspector.Inspect(buf, key)
	if err != nil {
		return result, false, err
	}
	if !info.Found {
		return result, false, nil
	}

	dec, err := stego.NewDecoder(engineConfig(newProgressBar(info.Length, "decoding")))
	if err != nil {
		return result, false, err
	}
	if result, err = dec.Decode(buf, key); err != nil {
		return result, false, err
	}
	if result.Payload, err = envelope.Unwrap(result.Payload, envelopeFlags); err != nil {
		return result, true, err
	}
	return result, true, nil
}

func runRetrieve(imagePath, keyArg string) error {
	result, found, err := extract(imagePath, keyArg)
	if err != nil {
		return err
	}
	if !found {
		log.Info().Str("image", imagePath).Msg("No data found in this image")
		return nil
	}

	out := retrieveFlags.Out
	if out == "" {
		out = defaultRetrievedPath(imagePath, result.Extension)
	}
	if err := ensureDir(out); err != nil {
		return err
	}
	if err := os.WriteFile(out, result.Payload, 0644); err != nil {
		return err
	}

	log.Info().
		Str("output", out).
		Stringer("mode", result.Mode).
		Str("size", humanize.Bytes(uint64(len(result.Payload)))).
		Msg("Retrieved file from the image")
	return nil
}

func init() {
	rootCmd.AddCommand(retrieveCmd)

	retrieveCmd.Flags().StringVarP(&retrieveFlags.Out, "output", "o", "", "Output path for the file (default: retrieved/<image>_extract)")
	addEnvelopeFlags(retrieveCmd)
}
