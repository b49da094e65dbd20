package wire

import (
	"encoding/binary"
	"math"

	"github.com/c360/streamkit/errors"
)

// Reader decodes a wire-format stream from a fully-received byte buffer,
// tracking position so callers can splice side-payload regions with Seek.
// Reader is not safe for concurrent use; this layer is a pure transform
// with no I/O, retry, or backpressure.
type Reader struct {
	buf []byte
	pos int
	err error
}

// NewReader creates a Reader over the supplied buffer. The buffer is not
// copied; the caller must not mutate it while decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Err returns the sticky error, if any.
func (r *Reader) Err() error {
	return r.err
}

// SetError latches the first error; later calls are ignored.
func (r *Reader) SetError(err error) {
	if r.err != nil {
		return
	}
	r.err = err
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Seek moves the read position to an absolute offset.
func (r *Reader) Seek(pos int) {
	if r.err != nil {
		return
	}
	if pos < 0 || pos > len(r.buf) {
		r.SetError(errors.WrapInvalid(errors.ErrInvalidOffset, "Reader", "Seek", "offset range check"))
		return
	}
	r.pos = pos
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) {
	if r.err != nil {
		return
	}
	if n < 0 || n > r.Remaining() {
		r.SetError(errors.WrapInvalid(errors.ErrShortBuffer, "Reader", "Skip", "advance"))
		return
	}
	r.pos += n
}

// take returns the next n bytes without copying, advancing the position.
// A short buffer latches a framing error and returns nil.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.Remaining() {
		r.SetError(errors.WrapInvalid(errors.ErrShortBuffer, "Reader", "take", "read"))
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Bool reads one flag byte. Any value other than the two defined patterns
// is a framing error, so a corrupted byte cannot decode as a valid boolean.
func (r *Reader) Bool() bool {
	b := r.Uint8()
	if r.err != nil {
		return false
	}
	switch b {
	case FlagPresent:
		return true
	case FlagAbsent:
		return false
	default:
		r.SetError(errors.WrapInvalid(errors.ErrInvalidFlag, "Reader", "Bool", "flag byte check"))
		return false
	}
}

// Flag reads a presence flag. Identical decoding to Bool.
func (r *Reader) Flag() bool {
	return r.Bool()
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Int8 reads a signed byte.
func (r *Reader) Int8() int8 {
	return int8(r.Uint8())
}

// Uint16 reads a fixed-width little-endian uint16.
func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// Int16 reads a fixed-width little-endian int16.
func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

// Uint32 reads a fixed-width little-endian uint32.
func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Int32 reads a fixed-width little-endian int32.
func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

// Uint64 reads a fixed-width little-endian uint64.
func (r *Reader) Uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Int64 reads a fixed-width little-endian int64.
func (r *Reader) Int64() int64 {
	return int64(r.Uint64())
}

// Float32 reads an IEEE-754 bit pattern little-endian.
func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

// Float64 reads an IEEE-754 bit pattern little-endian.
func (r *Reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

// Data fills p with exactly len(p) bytes from the stream.
func (r *Reader) Data(p []byte) {
	b := r.take(len(p))
	if b == nil {
		return
	}
	copy(p, b)
}

// Count reads and validates an element count or byte length. Negative
// values and values exceeding the remaining bytes are framing errors; the
// check runs before any caller loops or allocates, so an implausible count
// can never drive a decode loop or a huge allocation.
func (r *Reader) Count() int {
	v := r.Int32()
	if r.err != nil {
		return 0
	}
	if v < 0 {
		r.SetError(errors.WrapInvalid(errors.ErrNegativeCount, "Reader", "Count", "count range check"))
		return 0
	}
	if int(v) > r.Remaining() {
		r.SetError(errors.WrapInvalid(errors.ErrCountTooLarge, "Reader", "Count", "count plausibility check"))
		return 0
	}
	return int(v)
}

// String reads a string encoded by Writer.String. An absent flag in a
// non-nullable string position is malformed input.
func (r *Reader) String() string {
	present := r.Flag()
	if r.err != nil {
		return ""
	}
	if !present {
		r.SetError(errors.WrapInvalid(errors.ErrInvalidData, "Reader", "String", "missing required string"))
		return ""
	}
	n := r.Count()
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// StringPtr reads an optional string: nil for absent, otherwise a pointer
// to the decoded value. Absent and empty remain distinguishable.
func (r *Reader) StringPtr() *string {
	present := r.Flag()
	if r.err != nil || !present {
		return nil
	}
	n := r.Count()
	b := r.take(n)
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}
