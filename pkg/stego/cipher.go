package stego

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// IVSize is the length of the initialization vector, one AES block.
const IVSize = aes.BlockSize

// CipherContext is the key material used to encrypt a payload. The IV keys
// the header block and seeds the payload counter.
type CipherContext struct {
	Key []byte
	IV  []byte
}

func NewCipherContext(key, iv []byte) (*CipherContext, error) {
	c := &CipherContext{Key: key, IV: iv}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CipherContext) Validate() error {
	switch len(c.Key) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: key must be 16, 24 or 32 bytes, got %d", ErrInvalidKey, len(c.Key))
	}
	if len(c.IV) != IVSize {
		return fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidKey, IVSize, len(c.IV))
	}
	return nil
}

type payloadCipher struct {
	header  cipher.Block
	payload cipher.Block
	iv      [IVSize]byte
}

func newPayloadCipher(c *CipherContext) (*payloadCipher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	header, err := aes.NewCipher(c.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	payload, err := aes.NewCipher(c.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pc := &payloadCipher{header: header, payload: payload}
	copy(pc.iv[:], c.IV)
	return pc, nil
}

// sealHeader encrypts the single header block, ECB style.
func (pc *payloadCipher) sealHeader(block []byte) []byte {
	out := make([]byte, headerSize)
	pc.header.Encrypt(out, block)
	return out
}

func (pc *payloadCipher) openHeader(block []byte) []byte {
	out := make([]byte, headerSize)
	pc.header.Decrypt(out, block)
	return out
}

// streamAt returns a CTR stream positioned blocks cipher blocks into the
// payload. Each call owns its counter; the base IV is left untouched.
func (pc *payloadCipher) streamAt(blocks uint64) cipher.Stream {
	ctr := advanceCounter(pc.iv, blocks)
	return cipher.NewCTR(pc.payload, ctr[:])
}

// advanceCounter adds n to the 128-bit big-endian counter iv.
func advanceCounter(iv [IVSize]byte, n uint64) [IVSize]byte {
	hi := binary.BigEndian.Uint64(iv[:8])
	lo := binary.BigEndian.Uint64(iv[8:])
	sum := lo + n
	if sum < lo {
		hi++
	}
	var out [IVSize]byte
	binary.BigEndian.PutUint64(out[:8], hi)
	binary.BigEndian.PutUint64(out[8:], sum)
	return out
}
