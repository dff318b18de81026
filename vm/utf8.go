package vm

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidUTF8 reports a malformed sequence on an input stream.
var ErrInvalidUTF8 = errors.New("vm: invalid utf-8 sequence")

// scalarMasks[n] extracts the payload bits of a leading byte that announces
// n+1 total bytes.
var scalarMasks = [4]byte{0x7f, 0x1f, 0x0f, 0x07}

// ReadScalar decodes one Unicode scalar from r. A clean EOF before the first
// byte is io.EOF; EOF inside a multi-byte sequence is io.ErrUnexpectedEOF.
func ReadScalar(r io.Reader) (rune, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("vm: read input: %w", err)
	}

	lead := buf[0]
	var size int
	switch {
	case lead&0x80 == 0:
		size = 1
	case lead&0xe0 == 0xc0:
		size = 2
	case lead&0xf0 == 0xe0:
		size = 3
	case lead&0xf8 == 0xf0:
		size = 4
	default:
		return 0, ErrInvalidUTF8
	}

	c := rune(lead & scalarMasks[size-1])
	for i := 1; i < size; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("vm: read input: %w", err)
		}
		if buf[0]&0xc0 != 0x80 {
			return 0, ErrInvalidUTF8
		}
		c = c<<6 | rune(buf[0]&0x3f)
	}
	return c, nil
}
