// Package cryptonote implements the legacy (pre-CARROT) CryptoNote wire
// format: variable-length integers, transaction binary layout, and the
// original single-derivation output scanning scheme that CARROT
// generalizes.
package cryptonote

import (
	"errors"

	"github.com/mxhess/salvium-core/errs"
)

// ErrVarintOverflow is returned when a varint would not fit in 64 bits:
// it runs past ten bytes, or its tenth byte carries more than the top
// value bit. Redundant encodings (trailing zero groups) are not rejected.
var ErrVarintOverflow = errors.New("cryptonote: varint overflow")

// ErrVarintTruncated is returned when the byte slice ends before a
// varint's continuation bit clears.
var ErrVarintTruncated = errors.New("cryptonote: varint truncated")

// AppendVarint appends v to dst using the 7-bit continuation-byte
// encoding CryptoNote uses throughout its wire format, and returns the
// extended slice.
func AppendVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v&0x7f)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// EncodeVarint is a convenience wrapper returning a freshly allocated
// encoding of v.
func EncodeVarint(v uint64) []byte {
	return AppendVarint(nil, v)
}

// DecodeVarint reads a varint from the front of b, returning the value,
// the number of bytes consumed, and an error if b is truncated or the
// value overflows 64 bits.
func DecodeVarint(b []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(b); i++ {
		if i >= 10 {
			return 0, 0, ErrVarintOverflow
		}
		c := b[i]
		chunk := uint64(c & 0x7f)
		if i == 9 && chunk > 1 {
			return 0, 0, ErrVarintOverflow
		}
		v |= chunk << (7 * uint(i))
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrVarintTruncated
}

// reader is a small cursor used internally to thread errors through a
// sequence of varint/bytes/byte calls without repeating bounds checks
// everywhere.
type reader struct {
	b   []byte
	off int
	err error
}

func newReader(b []byte) *reader {
	return &reader{b: b}
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) varint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := DecodeVarint(r.b[r.off:])
	if err != nil {
		r.fail(err)
		return 0
	}
	r.off += n
	return v
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.b) {
		r.fail(errs.ErrIntegrityViolation)
		return nil
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out
}

func (r *reader) byte() byte {
	out := r.bytes(1)
	if out == nil {
		return 0
	}
	return out[0]
}
