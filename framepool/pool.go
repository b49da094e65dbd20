package framepool

import (
	"fmt"
	"sync"

	"github.com/c360/streamkit/errors"
)

// poolKey identifies one free list. Buffers are only ever reused for the
// exact (shape, width, height) they were allocated for.
type poolKey struct {
	shape  Shape
	width  int32
	height int32
}

// Pool caches frame buffers keyed by (shape, width, height). All methods
// are safe for concurrent use; the pool is shared by every decode running
// in the process.
type Pool struct {
	mu      sync.Mutex
	free    map[poolKey][]*Buffer
	stats   *Statistics
	metrics *poolMetrics
}

// NewPool creates a pool. Stats are always collected; Prometheus metrics
// are optional via WithMetrics(). Returns an error if metrics registration
// fails when metrics are requested.
func NewPool(options ...Option) (*Pool, error) {
	opts := applyOptions(options...)

	var metrics *poolMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newPoolMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "framepool", "NewPool", "metrics registration")
		}
	}

	return &Pool{
		free:    make(map[poolKey][]*Buffer),
		stats:   NewStatistics(),
		metrics: metrics,
	}, nil
}

// Acquire returns a buffer for the given dimensions and shape, reusing a
// free entry when one exists or allocating fresh. The returned buffer holds
// one reference; the caller releases it when done.
func (p *Pool) Acquire(width, height int32, shape Shape) (*Buffer, error) {
	size := shape.SizeOf(width, height)
	if size < 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s %dx%d", errors.ErrShapeMismatch, shape, width, height),
			"Pool", "Acquire", "shape validation")
	}

	key := poolKey{shape: shape, width: width, height: height}

	p.mu.Lock()
	var buf *Buffer
	if list := p.free[key]; len(list) > 0 {
		buf = list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		p.stats.Hit()
	} else {
		p.stats.Miss()
	}
	p.stats.Acquire()
	if buf == nil {
		p.stats.GrowBytes(int64(size))
	}
	live := p.stats.Live()
	p.mu.Unlock()

	reused := buf != nil
	if !reused {
		buf = &Buffer{
			data:   make([]byte, size),
			width:  width,
			height: height,
			shape:  shape,
			pool:   p,
		}
	}
	buf.refs.Store(1)

	if p.metrics != nil {
		p.metrics.recordAcquire(reused, live)
	}

	return buf, nil
}

// release returns a fully-released buffer to its free list. Called from
// Buffer.Release when the count reaches zero.
func (p *Pool) release(b *Buffer) {
	key := poolKey{shape: b.shape, width: b.width, height: b.height}

	p.mu.Lock()
	p.free[key] = append(p.free[key], b)
	p.stats.Release()
	live := p.stats.Live()
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.recordRelease(live)
	}
}

// Stats returns pool statistics (always available for observability).
func (p *Pool) Stats() *Statistics {
	return p.stats
}

// FreeCount returns the number of pooled free buffers for one key. Intended
// for tests and diagnostics.
func (p *Pool) FreeCount(width, height int32, shape Shape) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[poolKey{shape: shape, width: width, height: height}])
}
