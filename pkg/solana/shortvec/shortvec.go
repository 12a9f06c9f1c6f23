// Package shortvec implements the compact-u16 length encoding used by the
// transaction wire format.
package shortvec

import (
	"fmt"
	"io"
	"math"
)

// EncodeLen writes v in compact-u16 form: 7 bits per byte, least
// significant first, with the high bit marking continuation. Values above
// math.MaxUint16 are rejected.
func EncodeLen(w io.Writer, v int) (int, error) {
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("value exceeds %d", math.MaxUint16)
	}

	var written int
	buf := make([]byte, 1)
	for {
		buf[0] = byte(v & 0x7f)
		if v >>= 7; v != 0 {
			buf[0] |= 0x80
		}

		n, err := w.Write(buf)
		written += n
		if err != nil || buf[0]&0x80 == 0 {
			return written, err
		}
	}
}

// DecodeLen reads a compact-u16 value. Encodings longer than three bytes
// are rejected.
func DecodeLen(r io.Reader) (int, error) {
	var (
		val   int
		shift uint
	)
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			return 0, err
		}

		val |= int(buf[0]&0x7f) << shift
		shift += 7

		if buf[0]&0x80 == 0 {
			break
		}
	}

	if shift > 21 {
		return 0, fmt.Errorf("invalid encoding: %d bytes (max 3)", shift/7)
	}

	return val, nil
}
