// Package streamkit provides the wire-serialization subsystem of the
// StreamKit streaming dataflow runtime: the binary codec used to move
// sensor payloads and pipeline diagnostics between processes.
//
// # Architecture
//
// The subsystem is built leaves-first from four layers:
//
//	┌─────────────────────────────────────┐
//	│        diagnostics codec            │  Identity-memoizing graph
//	│  (pipelines, elements, emitters,    │  encode/decode with cycle
//	│   receivers, back-references)       │  resolution
//	└─────────────────────────────────────┘
//	           ↓ composes
//	┌─────────────────────────────────────┐
//	│         format combinators          │  Paired encoder/decoder
//	│    (Optional, SliceOf, MapOf)       │  bundles per value shape
//	└─────────────────────────────────────┘
//	           ↓ built on
//	┌──────────────────┐ ┌────────────────┐
//	│   wire codec     │ │   framepool    │  Primitive byte codec and
//	│ (scalars, flags, │ │ (ref-counted,  │  pooled buffers for large
//	│  strings, seqs)  │ │  shape-keyed)  │  fixed-shape payloads
//	└──────────────────┘ └────────────────┘
//
// Package wire implements the byte-exact primitive codec: one-byte presence
// flags with defensive bit patterns, fixed-width little-endian scalars,
// length-prefixed strings, counted sequences and maps. All reads and writes
// use a sticky-error model so call sites stay linear.
//
// Package framepool bounds allocation for high-frequency fixed-shape
// payloads (camera frames, depth maps) with a process-wide, shape-keyed,
// reference-counted buffer pool that is safe under concurrent decodes.
//
// Package format pairs one encoder and one decoder per value shape so both
// sides of the wire agree on field order byte-for-byte, including decoders
// that consume a side channel of raw payload bytes.
//
// Package diagnostics captures and serializes the runtime's introspection
// graph. The graph is riddled with back-references and cycles (an emitter
// references its target receivers, a receiver its source emitter, elements
// their owning pipeline and vice versa); the codec assigns each node a
// stable identity, writes full bodies only on first encounter, and resolves
// cycles on decode through placeholders inserted before recursion.
//
// Package exporter is the shipping consumer of the codec: a lifecycle
// component that periodically captures the diagnostics graph and publishes
// the encoded bytes over NATS for remote visualization tooling.
//
// Error handling across the subsystem follows the StreamKit errors package:
// sentinel variables plus Transient/Invalid/Fatal classification, wrapped as
// "component.method: action failed: %w".
package streamkit
