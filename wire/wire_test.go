package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/errors"
)

func TestScalarRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Bool(true)
	w.Bool(false)
	w.Uint8(0xFE)
	w.Int8(-5)
	w.Uint16(0xBEEF)
	w.Int16(-12345)
	w.Uint32(0xDEADBEEF)
	w.Int32(-123456789)
	w.Uint64(0xFEEDFACECAFEBEEF)
	w.Int64(-1234567890123)
	w.Float32(3.25)
	w.Float64(-2.5e300)

	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data)
	assert.True(t, r.Bool())
	assert.False(t, r.Bool())
	assert.Equal(t, uint8(0xFE), r.Uint8())
	assert.Equal(t, int8(-5), r.Int8())
	assert.Equal(t, uint16(0xBEEF), r.Uint16())
	assert.Equal(t, int16(-12345), r.Int16())
	assert.Equal(t, uint32(0xDEADBEEF), r.Uint32())
	assert.Equal(t, int32(-123456789), r.Int32())
	assert.Equal(t, uint64(0xFEEDFACECAFEBEEF), r.Uint64())
	assert.Equal(t, int64(-1234567890123), r.Int64())
	assert.Equal(t, float32(3.25), r.Float32())
	assert.Equal(t, -2.5e300, r.Float64())
	require.NoError(t, r.Err())
	assert.Equal(t, 0, r.Remaining())
}

func TestFloatNaNRoundTripsBitForBit(t *testing.T) {
	// A quiet NaN with a distinctive payload must survive unchanged
	nan64 := math.Float64frombits(0x7FF800000000BEEF)
	nan32 := math.Float32frombits(0x7FC00ABC)

	w := NewWriter()
	w.Float64(nan64)
	w.Float32(nan32)
	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data)
	assert.Equal(t, uint64(0x7FF800000000BEEF), math.Float64bits(r.Float64()))
	assert.Equal(t, uint32(0x7FC00ABC), math.Float32bits(r.Float32()))
	require.NoError(t, r.Err())
}

func TestScalarsAreLittleEndian(t *testing.T) {
	w := NewWriter()
	w.Uint32(0x11223344)
	data, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, data)
}

func TestBoolWirePatterns(t *testing.T) {
	w := NewWriter()
	w.Bool(true)
	w.Bool(false)
	data, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{FlagPresent, FlagAbsent}, data)
}

func TestCorruptedFlagByteDetected(t *testing.T) {
	for _, b := range []byte{0x00, 0x01, 0xFF, FlagPresent ^ 0x01} {
		r := NewReader([]byte{b})
		r.Bool()
		err := r.Err()
		require.Error(t, err, "flag byte 0x%02X accepted", b)
		assert.True(t, errors.IsFraming(err))
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "hello", "héllo wörld", "\x00binary\xff"}
	for _, s := range cases {
		w := NewWriter()
		w.String(s)
		data, err := w.Bytes()
		require.NoError(t, err)

		r := NewReader(data)
		assert.Equal(t, s, r.String())
		require.NoError(t, r.Err())
	}
}

func TestStringPtrNilVsEmpty(t *testing.T) {
	empty := ""
	w := NewWriter()
	w.StringPtr(nil)
	w.StringPtr(&empty)
	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data)
	assert.Nil(t, r.StringPtr())
	got := r.StringPtr()
	require.NotNil(t, got)
	assert.Equal(t, "", *got)
	require.NoError(t, r.Err())

	// Absent is exactly one flag byte, no body bytes
	w2 := NewWriter()
	w2.StringPtr(nil)
	absent, err := w2.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{FlagAbsent}, absent)
}

func TestCountValidation(t *testing.T) {
	t.Run("negative count on write", func(t *testing.T) {
		w := NewWriter()
		w.Count(-1)
		_, err := w.Bytes()
		require.Error(t, err)
		assert.True(t, errors.IsFraming(err))
	})

	t.Run("negative count on read", func(t *testing.T) {
		w := NewWriter()
		w.Int32(-7)
		data, err := w.Bytes()
		require.NoError(t, err)
		r := NewReader(data)
		assert.Equal(t, 0, r.Count())
		require.Error(t, r.Err())
		assert.True(t, errors.IsFraming(r.Err()))
	})

	t.Run("count exceeding remaining bytes", func(t *testing.T) {
		w := NewWriter()
		w.Int32(1 << 30)
		data, err := w.Bytes()
		require.NoError(t, err)
		r := NewReader(data)
		assert.Equal(t, 0, r.Count())
		require.Error(t, r.Err())
		assert.True(t, errors.IsFraming(r.Err()))
	})
}

func TestTruncationAtEveryOffset(t *testing.T) {
	w := NewWriter()
	w.Bool(true)
	w.Int32(42)
	w.String("truncate me")
	w.Float64(math.Pi)
	data, err := w.Bytes()
	require.NoError(t, err)

	for cut := 0; cut < len(data); cut++ {
		r := NewReader(data[:cut])
		r.Bool()
		r.Int32()
		_ = r.String()
		r.Float64()
		require.Error(t, r.Err(), "truncation at offset %d went undetected", cut)
		assert.True(t, errors.IsFraming(r.Err()), "offset %d: %v", cut, r.Err())
	}
}

func TestStickyErrorStopsLaterReads(t *testing.T) {
	r := NewReader([]byte{0x01})
	r.Uint32() // short buffer
	first := r.Err()
	require.Error(t, first)

	// Later calls return zero values and keep the first error
	assert.Equal(t, uint8(0), r.Uint8())
	assert.Equal(t, "", r.String())
	assert.Same(t, first, r.Err())
}

func TestSeekAndSkip(t *testing.T) {
	w := NewWriter()
	w.Int32(1)
	w.Int32(2)
	w.Int32(3)
	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data)
	r.Skip(4)
	assert.Equal(t, int32(2), r.Int32())
	r.Seek(0)
	assert.Equal(t, int32(1), r.Int32())
	assert.Equal(t, 4, r.Pos())
	assert.Equal(t, 8, r.Remaining())
	require.NoError(t, r.Err())

	r.Seek(len(data) + 1)
	require.Error(t, r.Err())
	assert.True(t, errors.IsFraming(r.Err()))
}
