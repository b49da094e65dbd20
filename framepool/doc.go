// Package framepool provides a process-wide, reference-counted buffer pool
// for large fixed-shape payloads such as camera frames and depth maps.
//
// Buffers are cached by (shape, width, height). A decode path acquires a
// buffer of the declared shape, copies exactly the declared payload length
// from the wire into it, and hands it downstream; the last Release returns
// the backing allocation to the pool instead of freeing it, bounding live
// allocations for these high-frequency payloads.
//
// The pool is the only shared mutable state in the serialization subsystem
// and is safe under concurrent Acquire/Release. It is always passed in
// explicitly rather than reached through a package global, so tests and
// tools can substitute a fresh pool and lifetime semantics stay visible at
// each call site.
//
// Statistics are always collected for observability. Prometheus metrics are
// optional via the WithMetrics() functional option.
package framepool
