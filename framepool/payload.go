package framepool

import (
	"fmt"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/wire"
)

// Payload wire layout: width:int32, height:int32, shape:int32,
// length:int32, raw bytes. The length is redundant with the shape and
// dimensions; it is carried so the decoder can reject a mismatched header
// before touching pooled memory.

// WritePayload writes a frame buffer's header and raw bytes.
func WritePayload(w *wire.Writer, b *Buffer) {
	w.Int32(b.width)
	w.Int32(b.height)
	w.Int32(int32(b.shape))
	w.Count(len(b.data))
	w.Data(b.data)
}

// ReadPayload decodes a frame payload by acquiring a matching pooled buffer
// and copying exactly the declared length from the current position,
// advancing the stream by that length. The declared dimensions, shape, and
// length are validated against each other BEFORE any buffer is acquired or
// any byte copied, so a corrupt header can never cause an out-of-bounds
// write into pooled memory.
//
// The returned buffer holds one reference owned by the caller.
func ReadPayload(r *wire.Reader, pool *Pool) (*Buffer, error) {
	width := r.Int32()
	height := r.Int32()
	shape := Shape(r.Int32())
	length := r.Count()
	if err := r.Err(); err != nil {
		return nil, err
	}

	expected := shape.SizeOf(width, height)
	if expected < 0 || expected != length {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s %dx%d declares %d bytes, expected %d",
				errors.ErrShapeMismatch, shape, width, height, length, expected),
			"framepool", "ReadPayload", "payload header validation")
	}

	buf, err := pool.Acquire(width, height, shape)
	if err != nil {
		return nil, err
	}

	r.Data(buf.data)
	if err := r.Err(); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}
