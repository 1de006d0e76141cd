package stego

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultMarker confirms the presence of an embedded payload.
	DefaultMarker = "MSGSTART"

	markerSize = 8
	headerSize = markerSize + 8
)

// ProgressReporter receives the number of payload bytes each worker has
// finished. *progressbar.ProgressBar satisfies it.
type ProgressReporter interface {
	Add(num int) error
}

// Config is fixed when an Encoder or Decoder is built.
type Config struct {
	// Marker must be exactly 8 bytes.
	Marker string
	// Workers is the number of chunks the payload is split into. Zero or
	// less means one per CPU.
	Workers int
	// Legacy stores the file extension in-band after the length field.
	// It is only available for plaintext payloads.
	Legacy   bool
	Progress ProgressReporter
}

func DefaultConfig() Config {
	return Config{
		Marker:  DefaultMarker,
		Workers: runtime.NumCPU(),
	}
}

func (c Config) withDefaults() (Config, error) {
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	if len(c.Marker) != markerSize {
		return c, fmt.Errorf("%w: marker %q must be %d bytes", ErrInvalidConfig, c.Marker, markerSize)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c, nil
}

func (c Config) marker() (m [markerSize]byte) {
	copy(m[:], c.Marker)
	return m
}

func (c Config) report(n int) {
	if c.Progress == nil {
		return
	}
	if err := c.Progress.Add(n); err != nil {
		log.Debug().Err(err).Msg("Progress reporter failed")
	}
}
