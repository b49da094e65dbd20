package exporter

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks exporter performance metrics.
type Statistics struct {
	// Atomic counters for thread-safe updates
	exports int64
	errs    int64
	skips   int64

	// Protected by mutex
	mu            sync.RWMutex
	startTime     time.Time
	bytesExported int64
	lastExport    time.Time
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// RecordExport records a successfully published snapshot.
func (s *Statistics) RecordExport(size int) {
	atomic.AddInt64(&s.exports, 1)
	s.mu.Lock()
	s.bytesExported += int64(size)
	s.lastExport = time.Now()
	s.mu.Unlock()
}

// RecordError records a failed export cycle.
func (s *Statistics) RecordError() {
	atomic.AddInt64(&s.errs, 1)
}

// RecordSkip records a cycle where the source had no snapshot.
func (s *Statistics) RecordSkip() {
	atomic.AddInt64(&s.skips, 1)
}

// Exports returns the number of snapshots published.
func (s *Statistics) Exports() int64 {
	return atomic.LoadInt64(&s.exports)
}

// Errors returns the number of failed export cycles.
func (s *Statistics) Errors() int64 {
	return atomic.LoadInt64(&s.errs)
}

// Skips returns the number of cycles skipped for lack of a snapshot.
func (s *Statistics) Skips() int64 {
	return atomic.LoadInt64(&s.skips)
}

// BytesExported returns the total encoded bytes published.
func (s *Statistics) BytesExported() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bytesExported
}

// LastExport returns the time of the most recent successful publish.
func (s *Statistics) LastExport() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastExport
}

// Uptime returns the duration since the statistics were created.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}
