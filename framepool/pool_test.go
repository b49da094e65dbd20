package framepool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/metric"
)

func TestShapeSizeOf(t *testing.T) {
	tests := []struct {
		name   string
		shape  Shape
		width  int32
		height int32
		want   int
	}{
		{"gray8 64x64", ShapeGray8, 64, 64, 4096},
		{"gray16 64x64", ShapeGray16, 64, 64, 8192},
		{"depth16 320x288", ShapeDepth16, 320, 288, 184320},
		{"bgr24 2x2", ShapeBGR24, 2, 2, 12},
		{"bgra32 2x2", ShapeBGRA32, 2, 2, 16},
		{"nv12 4x4", ShapeNV12, 4, 4, 24},
		{"nv12 odd width", ShapeNV12, 3, 4, -1},
		{"unknown shape", ShapeUnknown, 4, 4, -1},
		{"zero width", ShapeGray8, 0, 4, -1},
		{"negative height", ShapeGray8, 4, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shape.SizeOf(tt.width, tt.height))
		})
	}
}

func TestAcquireReusesSameBackingAllocation(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	a, err := pool.Acquire(64, 64, ShapeGray8)
	require.NoError(t, err)
	backing := &a.Data()[0]
	a.Release()

	b, err := pool.Acquire(64, 64, ShapeGray8)
	require.NoError(t, err)
	assert.Same(t, backing, &b.Data()[0], "expected the pooled allocation back, not a fresh one")

	assert.Equal(t, int64(1), pool.Stats().Hits())
	assert.Equal(t, int64(1), pool.Stats().Misses())
}

func TestAcquireDifferentKeysDoNotShare(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	a, err := pool.Acquire(64, 64, ShapeGray8)
	require.NoError(t, err)
	a.Release()

	// Same dimensions, different shape: must not reuse the Gray8 buffer
	b, err := pool.Acquire(64, 64, ShapeGray16)
	require.NoError(t, err)
	assert.Len(t, b.Data(), 8192)
	assert.Equal(t, 1, pool.FreeCount(64, 64, ShapeGray8))
}

func TestAcquireInvalidShapeRejected(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	_, err = pool.Acquire(64, 64, Shape(99))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	_, err = pool.Acquire(0, 64, ShapeGray8)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestReferenceCounting(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	buf, err := pool.Acquire(8, 8, ShapeGray8)
	require.NoError(t, err)
	assert.Equal(t, int32(1), buf.Refs())

	buf.AddRef()
	assert.Equal(t, int32(2), buf.Refs())

	buf.Release()
	assert.Equal(t, 0, pool.FreeCount(8, 8, ShapeGray8), "buffer returned early")

	buf.Release()
	assert.Equal(t, 1, pool.FreeCount(8, 8, ShapeGray8), "final release must pool the buffer")
}

func TestReleasePastZeroPanics(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	buf, err := pool.Acquire(8, 8, ShapeGray8)
	require.NoError(t, err)
	buf.Release()

	assert.Panics(t, func() { buf.Release() })
	assert.Panics(t, func() { buf.AddRef() })
}

func TestConcurrentAcquireRelease(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	const goroutines = 16
	const iterations = 200

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				buf, err := pool.Acquire(32, 32, ShapeDepth16)
				if err != nil {
					t.Error(err)
					return
				}
				buf.Data()[0] = byte(i)
				buf.Release()
			}
		}()
	}
	wg.Wait()

	stats := pool.Stats()
	assert.Equal(t, int64(goroutines*iterations), stats.Acquires())
	assert.Equal(t, int64(0), stats.Live())
	// Free list must not have been corrupted into duplicates
	assert.LessOrEqual(t, pool.FreeCount(32, 32, ShapeDepth16), goroutines)
}

func TestPoolMetricsExport(t *testing.T) {
	reg := metric.NewRegistry()
	pool, err := NewPool(WithMetrics(reg, "decoder"))
	require.NoError(t, err)

	buf, err := pool.Acquire(16, 16, ShapeGray8)
	require.NoError(t, err)
	buf.Release()

	families, err := reg.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["streamkit_framepool_acquires_total"])
	assert.True(t, names["streamkit_framepool_live"])
}

func TestStatisticsSummary(t *testing.T) {
	pool, err := NewPool()
	require.NoError(t, err)

	a, err := pool.Acquire(8, 8, ShapeGray8)
	require.NoError(t, err)
	b, err := pool.Acquire(8, 8, ShapeGray8)
	require.NoError(t, err)
	a.Release()
	b.Release()

	sum := pool.Stats().Summary()
	assert.Equal(t, int64(2), sum.Acquires)
	assert.Equal(t, int64(2), sum.Releases)
	assert.Equal(t, int64(0), sum.Live)
	assert.Equal(t, int64(2), sum.MaxLive)
	assert.Equal(t, int64(128), sum.AllocatedBytes)
	assert.Equal(t, 0.0, sum.HitRate)
}
