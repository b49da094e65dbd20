// Package wire implements the byte-exact primitive codec shared by every
// StreamKit serialized surface: presence flags, fixed-width little-endian
// scalars, length-prefixed strings, and validated counts.
//
// Both Writer and Reader use a sticky-error model: the first failure
// latches and every subsequent call becomes a no-op returning zero values,
// so call sites stay linear and check the error once at the end.
//
// The one-byte presence flag doubles as the boolean encoding. True/present
// and false/absent use two complementary bit patterns rather than 0/1 so
// that a corrupted flag byte is detectable instead of silently decoding as
// a valid boolean.
package wire

// Presence flag byte patterns. The two values are bitwise complements
// (Hamming distance 8); any other byte in a flag position is a framing
// error.
const (
	FlagPresent byte = 0xA5
	FlagAbsent  byte = 0x5A
)
