package framepool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/wire"
)

func encodeFrame(t *testing.T, width, height int32, shape Shape, fill byte) []byte {
	t.Helper()
	pool, err := NewPool()
	require.NoError(t, err)
	buf, err := pool.Acquire(width, height, shape)
	require.NoError(t, err)
	defer buf.Release()

	for i := range buf.Data() {
		buf.Data()[i] = fill
	}

	w := wire.NewWriter()
	WritePayload(w, buf)
	data, err := w.Bytes()
	require.NoError(t, err)
	return data
}

func TestPayloadRoundTrip(t *testing.T) {
	data := encodeFrame(t, 16, 8, ShapeBGR24, 0x7F)

	pool, err := NewPool()
	require.NoError(t, err)
	r := wire.NewReader(data)

	buf, err := ReadPayload(r, pool)
	require.NoError(t, err)
	defer buf.Release()

	assert.Equal(t, int32(16), buf.Width())
	assert.Equal(t, int32(8), buf.Height())
	assert.Equal(t, ShapeBGR24, buf.Shape())
	require.Len(t, buf.Data(), 16*8*3)
	for i, b := range buf.Data() {
		require.Equal(t, byte(0x7F), b, "payload byte %d", i)
	}
	assert.Equal(t, 0, r.Remaining(), "stream must advance by exactly the payload length")
}

func TestPayloadDecodeReusesPool(t *testing.T) {
	data := encodeFrame(t, 64, 64, ShapeGray8, 1)

	pool, err := NewPool()
	require.NoError(t, err)

	first, err := ReadPayload(wire.NewReader(data), pool)
	require.NoError(t, err)
	backing := &first.Data()[0]
	first.Release()

	second, err := ReadPayload(wire.NewReader(data), pool)
	require.NoError(t, err)
	assert.Same(t, backing, &second.Data()[0])
}

func TestPayloadShapeMismatchRejectedBeforeCopy(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	// Header declares Gray16 but carries a Gray8-sized length
	w := wire.NewWriter()
	w.Int32(4)
	w.Int32(4)
	w.Int32(int32(ShapeGray16))
	w.Count(16) // Gray16 4x4 needs 32
	w.Data(make([]byte, 16))
	data, werr := w.Bytes()
	require.NoError(t, werr)

	_, err = ReadPayload(wire.NewReader(data), pool)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrShapeMismatch)
	assert.Equal(t, int64(0), pool.Stats().Acquires(), "no buffer may be touched on a bad header")
}

func TestPayloadUnknownShapeRejected(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	w := wire.NewWriter()
	w.Int32(4)
	w.Int32(4)
	w.Int32(42) // undefined shape tag
	w.Count(16)
	w.Data(make([]byte, 16))
	data, werr := w.Bytes()
	require.NoError(t, werr)

	_, err = ReadPayload(wire.NewReader(data), pool)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrShapeMismatch)
}

func TestPayloadTruncationDetected(t *testing.T) {
	data := encodeFrame(t, 8, 8, ShapeGray8, 0xAB)
	pool, err := NewPool()
	require.NoError(t, err)

	for cut := 0; cut < len(data); cut++ {
		_, err := ReadPayload(wire.NewReader(data[:cut]), pool)
		require.Error(t, err, "truncation at %d undetected", cut)
		assert.True(t, errors.IsInvalid(err), "truncation at %d: %v", cut, err)
	}
	assert.Equal(t, int64(0), pool.Stats().Live(), "truncated decodes must not leak buffers")
}
