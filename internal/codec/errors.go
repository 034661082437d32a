package codec

import "errors"

// Deserialization failures, returned via fmt.Errorf("%w: ...", ...) wrapping.
var (
	ErrInputTooShort = errors.New("codec: input too short")
	ErrWrongTag      = errors.New("codec: wrong tag byte")
	ErrBadBase58     = errors.New("codec: invalid base58 encoding")
)
