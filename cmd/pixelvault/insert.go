package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresmejia3/pixelvault/pkg/envelope"
	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	insertFlags struct {
		Out    string
		DryRun bool
	}
)

var insertCmd = &cobra.Command{
	Use:   "insert <image> <file> [key]",
	Short: "Hide a file in an image",
	Long:  `Hides <file> in <image>. When a key file (or the name of a key under keys/) is given the file is encrypted with AES.`,
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInsert(args[0], args[1], optionalArg(args, 2)); err != nil {
			log.Fatal().Err(err).Msg("Failed to insert file")
		}
	},
}

func runInsert(imagePath, filePath, keyArg string) error {
	buf, format, err := imageio.Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}
	key, err := loadKey(keyArg)
	if err != nil {
		return err
	}

	out := insertFlags.Out
	if out == "" {
		out = defaultStegoPath(imagePath, format, buf.Channels)
	}
	outFormat, err := imageio.FormatFromPath(out)
	if err != nil {
		return err
	}
	if err := outFormat.Check(buf.Channels); err != nil {
		return fmt.Errorf("cannot write %s: %w", out, err)
	}

	if data, err = envelope.Wrap(data, envelopeFlags); err != nil {
		return err
	}

	var progress stego.ProgressReporter
	if !insertFlags.DryRun {
		progress = newProgressBar(len(data), "encoding")
	}
	enc, err := stego.NewEncoder(engineConfig(progress))
	if err != nil {
		return err
	}

	target := buf
	if insertFlags.DryRun {
		target = buf.Clone()
	}
	mode, err := enc.Encode(target, stego.Payload{Data: data, Extension: filepath.Ext(filePath)}, key)
	if err != nil {
		return err
	}

	if insertFlags.DryRun {
		log.Info().
			Stringer("mode", mode).
			Str("payload", humanize.Bytes(uint64(len(data)))).
			Msg("File fits in the image")
		return nil
	}

	s := newSpinner(" Writing " + out)
	s.Start()
	err = ensureDir(out)
	if err == nil {
		err = imageio.Save(out, buf)
	}
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	log.Info().
		Str("output", out).
		Stringer("mode", mode).
		Bool("encrypted", key != nil).
		Stringer("envelope", envelopeFlags).
		Str("payload", humanize.Bytes(uint64(len(data)))).
		Msg("Encoded file into the image")
	return nil
}

func init() {
	rootCmd.AddCommand(insertCmd)

	insertCmd.Flags().StringVarP(&insertFlags.Out, "output", "o", "", "Output path for the image (default: <image>_stego.png)")
	insertCmd.Flags().BoolVar(&insertFlags.DryRun, "dry-run", false, "Check if the file fits without encoding")
	addEnvelopeFlags(insertCmd)
}
