package stego

import "errors"

var (
	ErrCapacityExceeded = errors.New("image is not large enough to hide the payload")
	ErrCorruptedHeader  = errors.New("corrupted header: the payload length in the header is invalid")
	ErrInvalidKey       = errors.New("invalid key material")
	ErrInvalidBuffer    = errors.New("invalid pixel buffer")
	ErrEmptyPayload     = errors.New("payload is empty")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
