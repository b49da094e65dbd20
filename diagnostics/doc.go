// Package diagnostics defines the runtime introspection graph of a
// StreamKit pipeline and its binary codec.
//
// The graph is a snapshot captured once by the diagnostics producer: every
// pipeline, element, emitter, and receiver reachable from the root, each
// carrying a process-unique integer identity. The graph is deliberately
// rich in back-references and cycles. An emitter references its target
// receivers and each receiver references its source emitter; elements
// reference their owning pipeline and the pipeline its elements; connector
// elements may bridge to themselves. After decode the snapshot is
// read-only.
//
// # Identity-memoizing codec
//
// The codec serializes each distinct node exactly once. A node reference on
// the wire is a presence flag and the node's identity, followed by the full
// body only the first time that identity is encountered in the stream.
// Because the first-seen check precedes recursion, a cycle back to an
// in-progress node emits only its identity, so encoding always terminates.
//
// Decoding mirrors this with one identity→instance table per node type. A
// first-seen identity constructs an instance carrying only its non-reference
// fields, inserts it into the table, and then decodes the reference fields
// into the already-inserted instance. Inserting before recursing is what
// resolves cycles: a recursive reference back to the in-progress node
// returns the partially-filled instance instead of looping. Every reachable
// identity goes Unseen → InProgress → Complete exactly once.
//
// Encode and decode of one graph are single-threaded, synchronous,
// depth-first recursion over an already-fully-received byte buffer; there
// is no retry, cancellation, or backpressure at this layer.
package diagnostics
