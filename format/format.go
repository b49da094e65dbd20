// Package format pairs one encoder and one decoder per value shape so both
// sides of the wire agree on layout byte-for-byte. Composite formats are
// built by sequencing the formats of constituent fields in a fixed order
// inside New; the order of field calls IS the wire layout.
//
// Decoders take two readers: the structured stream and an optional side
// channel of raw payload bytes located by offset. Primitive formats ignore
// the side channel; Frame uses it for separately-located frame payloads.
package format

import (
	"github.com/c360/streamkit/framepool"
	"github.com/c360/streamkit/wire"
)

// EncodeFunc writes one value of type V to the stream.
type EncodeFunc[V any] func(w *wire.Writer, v V)

// DecodeFunc reads one value of type V. The payload reader is the side
// channel of raw payload bytes; it is nil for formats that never use it.
// Decode errors latch on the readers' sticky error state.
type DecodeFunc[V any] func(r *wire.Reader, payload *wire.Reader) V

// Format bundles the encoder and decoder for one value shape.
type Format[V any] struct {
	encode EncodeFunc[V]
	decode DecodeFunc[V]
}

// New creates a Format from an encoder/decoder pair.
func New[V any](encode EncodeFunc[V], decode DecodeFunc[V]) Format[V] {
	return Format[V]{encode: encode, decode: decode}
}

// Encode writes v to the stream.
func (f Format[V]) Encode(w *wire.Writer, v V) {
	f.encode(w, v)
}

// Decode reads one value. payload may be nil when the format has no
// separately-located payloads.
func (f Format[V]) Decode(r *wire.Reader, payload *wire.Reader) V {
	return f.decode(r, payload)
}

// Bool returns the format for booleans.
func Bool() Format[bool] {
	return New(
		func(w *wire.Writer, v bool) { w.Bool(v) },
		func(r *wire.Reader, _ *wire.Reader) bool { return r.Bool() },
	)
}

// Int32 returns the format for 32-bit signed integers.
func Int32() Format[int32] {
	return New(
		func(w *wire.Writer, v int32) { w.Int32(v) },
		func(r *wire.Reader, _ *wire.Reader) int32 { return r.Int32() },
	)
}

// Int64 returns the format for 64-bit signed integers.
func Int64() Format[int64] {
	return New(
		func(w *wire.Writer, v int64) { w.Int64(v) },
		func(r *wire.Reader, _ *wire.Reader) int64 { return r.Int64() },
	)
}

// Float32 returns the format for 32-bit floats.
func Float32() Format[float32] {
	return New(
		func(w *wire.Writer, v float32) { w.Float32(v) },
		func(r *wire.Reader, _ *wire.Reader) float32 { return r.Float32() },
	)
}

// Float64 returns the format for 64-bit floats.
func Float64() Format[float64] {
	return New(
		func(w *wire.Writer, v float64) { w.Float64(v) },
		func(r *wire.Reader, _ *wire.Reader) float64 { return r.Float64() },
	)
}

// String returns the format for non-nullable strings.
func String() Format[string] {
	return New(
		func(w *wire.Writer, v string) { w.String(v) },
		func(r *wire.Reader, _ *wire.Reader) string { return r.String() },
	)
}

// Optional lifts a format to nullable values: a presence flag, then the
// value iff present. Absent decodes to nil with zero body bytes consumed.
func Optional[V any](f Format[V]) Format[*V] {
	return New(
		func(w *wire.Writer, v *V) {
			w.Flag(v != nil)
			if v != nil {
				f.Encode(w, *v)
			}
		},
		func(r *wire.Reader, payload *wire.Reader) *V {
			if !r.Flag() || r.Err() != nil {
				return nil
			}
			v := f.Decode(r, payload)
			if r.Err() != nil {
				return nil
			}
			return &v
		},
	)
}

// SliceOf lifts a format to ordered sequences: a presence flag (nil and
// empty are distinct on the wire), element count, then elements in order.
// Decode preserves order with no dedup.
func SliceOf[V any](f Format[V]) Format[[]V] {
	return New(
		func(w *wire.Writer, vs []V) {
			w.Flag(vs != nil)
			if vs == nil {
				return
			}
			w.Count(len(vs))
			for _, v := range vs {
				f.Encode(w, v)
			}
		},
		func(r *wire.Reader, payload *wire.Reader) []V {
			if !r.Flag() || r.Err() != nil {
				return nil
			}
			n := r.Count()
			vs := make([]V, 0, n)
			for i := 0; i < n && r.Err() == nil; i++ {
				vs = append(vs, f.Decode(r, payload))
			}
			return vs
		},
	)
}

// MapOf lifts key and value formats to maps: a presence flag, entry count,
// then (key, value) pairs in stream order. A later duplicate key overwrites
// the earlier entry on decode. Encode iterates Go map order; producers
// requiring a canonical byte stream sort upstream.
func MapOf[K comparable, V any](kf Format[K], vf Format[V]) Format[map[K]V] {
	return New(
		func(w *wire.Writer, m map[K]V) {
			w.Flag(m != nil)
			if m == nil {
				return
			}
			w.Count(len(m))
			for k, v := range m {
				kf.Encode(w, k)
				vf.Encode(w, v)
			}
		},
		func(r *wire.Reader, payload *wire.Reader) map[K]V {
			if !r.Flag() || r.Err() != nil {
				return nil
			}
			n := r.Count()
			m := make(map[K]V, n)
			for i := 0; i < n && r.Err() == nil; i++ {
				k := kf.Decode(r, payload)
				v := vf.Decode(r, payload)
				if r.Err() != nil {
					break
				}
				m[k] = v
			}
			return m
		},
	)
}

// Frame returns the format for pooled frame buffers written inline:
// encode emits the payload at the current stream position and decode reads
// it back from the structured stream, acquiring from the pool.
//
// Decode errors surface on the reader's sticky error; a failed decode
// returns nil.
func Frame(pool *framepool.Pool) Format[*framepool.Buffer] {
	return New(
		func(w *wire.Writer, b *framepool.Buffer) {
			framepool.WritePayload(w, b)
		},
		func(r *wire.Reader, _ *wire.Reader) *framepool.Buffer {
			b, err := framepool.ReadPayload(r, pool)
			if err != nil {
				r.SetError(err)
				return nil
			}
			return b
		},
	)
}

// FrameRef returns the format for frame payloads located by offset in the
// side channel: the structured stream carries only the absolute byte offset
// of the payload, and decode seeks the side reader there before acquiring.
// Pairs with WriteFrameRef on the encode side.
func FrameRef(pool *framepool.Pool) Format[*framepool.Buffer] {
	return New(
		func(w *wire.Writer, b *framepool.Buffer) {
			// Encoding a FrameRef requires the side writer; use WriteFrameRef.
			panic("format: FrameRef encoded without a side channel, use WriteFrameRef")
		},
		func(r *wire.Reader, payload *wire.Reader) *framepool.Buffer {
			offset := r.Int32()
			if r.Err() != nil {
				return nil
			}
			payload.Seek(int(offset))
			b, err := framepool.ReadPayload(payload, pool)
			if err != nil {
				r.SetError(err)
				return nil
			}
			return b
		},
	)
}

// WriteFrameRef writes the frame payload to the side writer and its
// side-buffer offset to the structured stream. The decode side is
// FrameRef.
func WriteFrameRef(main, side *wire.Writer, b *framepool.Buffer) {
	main.Int32(int32(side.Len()))
	framepool.WritePayload(side, b)
}
