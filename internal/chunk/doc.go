// Package chunk splits byte payloads into bounded-size chunks for transport
// and reassembles indexed chunks back into a single buffer.
//
// # Overview
//
// Split is deterministic: indices start at 0, every chunk except the last is
// exactly size bytes long, and an empty input yields no chunks at all.
//
// Reassemble treats the chunk index as authoritative. Chunks may be supplied
// in any order; the result is always concatenated by index. The supplied
// indices must form the contiguous range [0, expected), otherwise
// ErrIncompleteTransfer is returned.
//
// # Error Handling
//
// Callers match ErrInvalidSize and ErrIncompleteTransfer with errors.Is.
package chunk
