package stego

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Payload is the data to hide. Extension is only written in the legacy
// layout and is otherwise ignored.
type Payload struct {
	Data      []byte
	Extension string
}

type Encoder struct {
	cfg Config
}

func NewEncoder(cfg Config) (*Encoder, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Encoder{cfg: cfg}, nil
}

// Encode hides p in buf, encrypting it when key is non-nil, and returns the
// mode that was selected. Every check happens before buf is modified.
func (e *Encoder) Encode(buf *PixelBuffer, p Payload, key *CipherContext) (Mode, error) {
	if err := buf.Validate(); err != nil {
		return 0, err
	}
	if len(p.Data) == 0 {
		return 0, ErrEmptyPayload
	}

	var pc *payloadCipher
	if key != nil {
		if e.cfg.Legacy {
			return 0, fmt.Errorf("%w: the legacy layout cannot be encrypted", ErrInvalidConfig)
		}
		var err error
		if pc, err = newPayloadCipher(key); err != nil {
			return 0, err
		}
	}

	overhead := headerSize
	ext := ""
	if e.cfg.Legacy {
		var err error
		if ext, err = normalizeExtension(p.Extension); err != nil {
			return 0, err
		}
		overhead += len(ext) + 1
	}

	usable := buf.UsableBytes()
	mode, err := SelectMode(len(p.Data), usable, overhead)
	if err != nil {
		return 0, err
	}

	log.Debug().
		Int("width", buf.Width).
		Int("height", buf.Height).
		Int("channels", buf.Channels).
		Int("usable", usable).
		Int("payload", len(p.Data)).
		Stringer("mode", mode).
		Bool("encrypted", pc != nil).
		Msg("Selected embedding mode")

	block, _ := Header{Marker: e.cfg.marker(), Length: uint64(len(p.Data))}.MarshalBinary()
	if pc != nil {
		block = pc.sealHeader(block)
	}
	cur := writeHeader(buf, block, mode)
	if e.cfg.Legacy {
		writeExtension(buf, cur, ext, mode)
	}

	chunks := schedule(len(p.Data), e.cfg.Workers, pc != nil, overhead, mode)
	log.Debug().Int("chunks", len(chunks)).Msg("Dispatching payload chunks")

	dispatch(chunks, func(c Chunk) {
		data := p.Data[c.Start:c.End]
		if pc != nil {
			sealed := make([]byte, len(data))
			pc.streamAt(c.Blocks).XORKeyStream(sealed, data)
			data = sealed
		}
		cur := CursorAt(buf, c.Unit)
		for _, b := range data {
			putByte(buf.Pix, cur, b, mode)
		}
		e.cfg.report(c.Len())
	})

	return mode, nil
}
