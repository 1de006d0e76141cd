// Package keys reads and writes the key files used to encrypt payloads.
//
// A key file holds the 16-byte IV followed by the AES key.
package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andresmejia3/pixelvault/pkg/stego"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultKeySize selects AES-256.
	DefaultKeySize = 32
	// Dir is where named keys live, relative to the working directory.
	Dir = "keys"

	iterations = 100000
)

var ErrShortKeyFile = errors.New("key file too short")

// DefaultPath returns the conventional location of the key called name.
func DefaultPath(name string) string {
	return filepath.Join(Dir, name+".key")
}

func validSize(keySize int) error {
	switch keySize {
	case 16, 24, 32:
		return nil
	}
	return fmt.Errorf("%w: key size must be 16, 24 or 32 bytes, got %d", stego.ErrInvalidKey, keySize)
}

// Generate writes a fresh random IV and key to path.
func Generate(path string, keySize int, random io.Reader) (*stego.CipherContext, error) {
	if err := validSize(keySize); err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}
	data := make([]byte, stego.IVSize+keySize)
	if _, err := io.ReadFull(random, data); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := write(path, data); err != nil {
		return nil, err
	}
	return stego.NewCipherContext(data[stego.IVSize:], data[:stego.IVSize])
}

// Derive stretches passphrase into a key of keySize bytes, salted with iv.
func Derive(passphrase string, iv []byte, keySize int) ([]byte, error) {
	if err := validSize(keySize); err != nil {
		return nil, err
	}
	if len(iv) != stego.IVSize {
		return nil, fmt.Errorf("%w: IV must be %d bytes", stego.ErrInvalidKey, stego.IVSize)
	}
	return pbkdf2.Key([]byte(passphrase), iv, iterations, keySize, sha256.New), nil
}

// GenerateFromPassphrase writes a key file whose key is derived from
// passphrase and a random IV.
func GenerateFromPassphrase(path, passphrase string, keySize int, random io.Reader) (*stego.CipherContext, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", stego.ErrInvalidKey)
	}
	if random == nil {
		random = rand.Reader
	}
	iv := make([]byte, stego.IVSize)
	if _, err := io.ReadFull(random, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	key, err := Derive(passphrase, iv, keySize)
	if err != nil {
		return nil, err
	}
	if err := write(path, append(append([]byte{}, iv...), key...)); err != nil {
		return nil, err
	}
	return stego.NewCipherContext(key, iv)
}

// Load reads a key file. A keySize of 0 infers the size from the file length,
// which must then be exactly 32, 40 or 48 bytes.
func Load(path string, keySize int) (*stego.CipherContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, keySize)
}

// Parse decodes the contents of a key file.
func Parse(data []byte, keySize int) (*stego.CipherContext, error) {
	if keySize == 0 {
		keySize = len(data) - stego.IVSize
		if err := validSize(keySize); err != nil {
			if keySize < 16 {
				return nil, fmt.Errorf("%w: %d bytes", ErrShortKeyFile, len(data))
			}
			return nil, err
		}
	}
	if err := validSize(keySize); err != nil {
		return nil, err
	}
	if len(data) < stego.IVSize+keySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrShortKeyFile, stego.IVSize+keySize, len(data))
	}
	return stego.NewCipherContext(data[stego.IVSize:stego.IVSize+keySize], data[:stego.IVSize])
}

func write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	// Only the owner may read a key.
	return os.WriteFile(path, data, 0600)
}
