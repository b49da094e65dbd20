package framepool

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks pool performance metrics.
type Statistics struct {
	// Atomic counters for thread-safe updates
	acquires int64
	hits     int64
	misses   int64
	releases int64

	// Protected by mutex
	mu             sync.RWMutex
	startTime      time.Time
	allocatedBytes int64
	maxLive        int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Acquire records a buffer acquisition.
func (s *Statistics) Acquire() {
	atomic.AddInt64(&s.acquires, 1)
	live := s.Live()
	s.mu.Lock()
	if live > s.maxLive {
		s.maxLive = live
	}
	s.mu.Unlock()
}

// Hit records a free-list reuse.
func (s *Statistics) Hit() {
	atomic.AddInt64(&s.hits, 1)
}

// Miss records an acquisition that required a fresh allocation.
func (s *Statistics) Miss() {
	atomic.AddInt64(&s.misses, 1)
}

// Release records a final buffer release back to the pool.
func (s *Statistics) Release() {
	atomic.AddInt64(&s.releases, 1)
}

// GrowBytes records bytes added to the pool's backing allocations.
func (s *Statistics) GrowBytes(n int64) {
	s.mu.Lock()
	s.allocatedBytes += n
	s.mu.Unlock()
}

// Acquires returns the total number of acquisitions.
func (s *Statistics) Acquires() int64 {
	return atomic.LoadInt64(&s.acquires)
}

// Hits returns the total number of free-list reuses.
func (s *Statistics) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the total number of fresh allocations.
func (s *Statistics) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// Releases returns the total number of final releases.
func (s *Statistics) Releases() int64 {
	return atomic.LoadInt64(&s.releases)
}

// Live returns the number of buffers currently held by callers.
func (s *Statistics) Live() int64 {
	return s.Acquires() - s.Releases()
}

// MaxLive returns the high-water mark of simultaneously held buffers.
func (s *Statistics) MaxLive() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLive
}

// AllocatedBytes returns the total bytes backing pool buffers.
func (s *Statistics) AllocatedBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allocatedBytes
}

// HitRate returns the fraction of acquisitions served from the free list
// (0.0 to 1.0).
func (s *Statistics) HitRate() float64 {
	acquires := s.Acquires()
	if acquires == 0 {
		return 0.0
	}
	return float64(s.Hits()) / float64(acquires)
}

// Uptime returns how long the pool has been running.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	atomic.StoreInt64(&s.acquires, 0)
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.releases, 0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.allocatedBytes = 0
	s.maxLive = 0
	s.mu.Unlock()
}

// StatsSummary returns a snapshot of all statistics.
type StatsSummary struct {
	Acquires       int64         `json:"acquires"`
	Hits           int64         `json:"hits"`
	Misses         int64         `json:"misses"`
	Releases       int64         `json:"releases"`
	Live           int64         `json:"live"`
	MaxLive        int64         `json:"max_live"`
	AllocatedBytes int64         `json:"allocated_bytes"`
	HitRate        float64       `json:"hit_rate"`
	Uptime         time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Acquires:       s.Acquires(),
		Hits:           s.Hits(),
		Misses:         s.Misses(),
		Releases:       s.Releases(),
		Live:           s.Live(),
		MaxLive:        s.MaxLive(),
		AllocatedBytes: s.AllocatedBytes(),
		HitRate:        s.HitRate(),
		Uptime:         s.Uptime(),
	}
}
