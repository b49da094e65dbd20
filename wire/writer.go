package wire

import (
	"encoding/binary"
	"math"

	"github.com/c360/streamkit/errors"
)

// Writer builds a wire-format byte stream in memory. Values are appended in
// call order; the zero Writer is ready to use. Writer is not safe for
// concurrent use.
type Writer struct {
	buf []byte
	err error
}

// NewWriter creates a Writer with a small initial allocation.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

// Bytes returns the encoded stream, or the first error encountered while
// building it.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Err returns the sticky error, if any.
func (w *Writer) Err() error {
	return w.err
}

// SetError latches the first error; later calls are ignored.
func (w *Writer) SetError(err error) {
	if w.err != nil {
		return
	}
	w.err = err
}

// Bool writes one flag byte: FlagPresent for true, FlagAbsent for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(FlagPresent)
	} else {
		w.Uint8(FlagAbsent)
	}
}

// Flag writes a presence flag. Identical encoding to Bool; named separately
// so optional-value call sites read naturally.
func (w *Writer) Flag(present bool) {
	w.Bool(present)
}

// Uint8 writes a single byte.
func (w *Writer) Uint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

// Int8 writes a signed byte.
func (w *Writer) Int8(v int8) {
	w.Uint8(uint8(v))
}

// Uint16 writes a fixed-width little-endian uint16.
func (w *Writer) Uint16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// Int16 writes a fixed-width little-endian int16.
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint32 writes a fixed-width little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Int32 writes a fixed-width little-endian int32.
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Uint64 writes a fixed-width little-endian uint64.
func (w *Writer) Uint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// Int64 writes a fixed-width little-endian int64.
func (w *Writer) Int64(v int64) {
	w.Uint64(uint64(v))
}

// Float32 writes the IEEE-754 bit pattern little-endian. NaN payloads are
// preserved bit-for-bit.
func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

// Float64 writes the IEEE-754 bit pattern little-endian. NaN payloads are
// preserved bit-for-bit.
func (w *Writer) Float64(v float64) {
	w.Uint64(math.Float64bits(v))
}

// Data appends raw bytes with no framing.
func (w *Writer) Data(p []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, p...)
}

// Count writes an element count or byte length as int32. Negative counts
// latch a framing error rather than encoding an undecodable stream.
func (w *Writer) Count(n int) {
	if w.err != nil {
		return
	}
	if n < 0 || n > math.MaxInt32 {
		w.SetError(errors.WrapInvalid(errors.ErrNegativeCount, "Writer", "Count", "count range check"))
		return
	}
	w.Uint32(uint32(n))
}

// String writes a present flag, the UTF-8 byte length as int32, then the
// bytes.
func (w *Writer) String(v string) {
	w.Flag(true)
	w.Count(len(v))
	w.Data([]byte(v))
}

// StringPtr writes an optional string: absent flag for nil, otherwise the
// String encoding. Absent and empty remain distinguishable on the wire.
func (w *Writer) StringPtr(v *string) {
	if v == nil {
		w.Flag(false)
		return
	}
	w.String(*v)
}
