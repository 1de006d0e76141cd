package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresmejia3/pixelvault/pkg/envelope"
	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/keys"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const retrievedDir = "retrieved"

var envelopeFlags envelope.Options

func addEnvelopeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&envelopeFlags.Compress, "compress", "z", false, "Compress data with zstd before embedding")
	cmd.Flags().BoolVar(&envelopeFlags.Parity, "parity", false, "Add Reed-Solomon parity to the embedded data")
}

func checkEngineFlags() error {
	if engineFlags.Workers < 0 {
		return errors.New("number of workers cannot be negative")
	}
	return nil
}

func engineConfig(progress stego.ProgressReporter) stego.Config {
	cfg := stego.DefaultConfig()
	cfg.Marker = engineFlags.Marker
	if engineFlags.Workers > 0 {
		cfg.Workers = engineFlags.Workers
	}
	cfg.Legacy = engineFlags.Legacy
	cfg.Progress = progress
	return cfg
}

// loadKey accepts a key file path or the name of a key under keys/. An empty
// argument means no encryption.
func loadKey(arg string) (*stego.CipherContext, error) {
	if arg == "" {
		return nil, nil
	}
	path := arg
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if named := keys.DefaultPath(arg); named != arg {
			if _, err := os.Stat(named); err == nil {
				path = named
			}
		}
	}
	key, err := keys.Load(path, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load key %s: %w", arg, err)
	}
	return key, nil
}

func newProgressBar(n int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		int64(n),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[4], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	return s
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultStegoPath places the output next to the carrier, keeping its format
// when it can hold the channels unchanged and falling back to PNG otherwise.
func defaultStegoPath(imagePath string, format imageio.Format, channels int) string {
	ext := string(format)
	if format.Check(channels) != nil {
		ext = string(imageio.PNG)
	}
	return filepath.Join(filepath.Dir(imagePath), stem(imagePath)+"_stego."+ext)
}

func defaultRetrievedPath(imagePath, extension string) string {
	name := stem(imagePath) + "_extract"
	if extension != "" {
		name += "." + extension
	}
	return filepath.Join(retrievedDir, name)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
