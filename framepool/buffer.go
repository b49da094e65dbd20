package framepool

import (
	"fmt"
	"sync/atomic"
)

// Buffer is a reference-counted frame buffer owned by a Pool. A freshly
// acquired buffer holds one reference; AddRef and Release adjust the count
// and the final Release returns the backing allocation to the pool.
//
// Buffer contents are not zeroed on reuse. Decode paths overwrite the full
// payload, so stale bytes never leak into a decoded frame.
type Buffer struct {
	data   []byte
	width  int32
	height int32
	shape  Shape
	refs   atomic.Int32
	pool   *Pool
}

// Data returns the backing byte slice. The slice is valid until the final
// Release; callers holding it longer must AddRef.
func (b *Buffer) Data() []byte {
	return b.data
}

// Width returns the frame width in pixels.
func (b *Buffer) Width() int32 {
	return b.width
}

// Height returns the frame height in pixels.
func (b *Buffer) Height() int32 {
	return b.height
}

// Shape returns the pixel layout.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Refs returns the current reference count.
func (b *Buffer) Refs() int32 {
	return b.refs.Load()
}

// AddRef takes an additional reference. Panics if the buffer has already
// been returned to the pool; sharing a dead buffer is a programming error,
// not a recoverable condition.
func (b *Buffer) AddRef() {
	if b.refs.Add(1) <= 1 {
		panic(fmt.Sprintf("framepool: AddRef on released %s %dx%d buffer", b.shape, b.width, b.height))
	}
}

// Release drops one reference. The final Release returns the buffer to its
// pool for reuse. Releasing more times than referenced panics.
func (b *Buffer) Release() {
	refs := b.refs.Add(-1)
	switch {
	case refs == 0:
		b.pool.release(b)
	case refs < 0:
		panic(fmt.Sprintf("framepool: Release on released %s %dx%d buffer", b.shape, b.width, b.height))
	}
}
