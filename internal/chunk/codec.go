package chunk

import (
	"fmt"
	"slices"
)

// DefaultSize is the payload limit of a single chunk (1 MiB).
const DefaultSize = 1 << 20

// Chunk is a payload segment addressed by its position in the source buffer.
type Chunk struct {
	Index int
	Data  []byte
}

// Count returns ceil(total/size). It returns 0 for non-positive sizes.
func Count(total uint64, size int) int {
	if size <= 0 {
		return 0
	}
	s := uint64(size)
	return int((total + s - 1) / s)
}

// Bounds returns the [start, end) range of chunk i within a buffer of the given length.
func Bounds(i, size, length int) (int, int) {
	start := i * size
	end := min(start+size, length)
	return start, end
}

// Split cuts buf into chunks of at most size bytes. Chunk payloads share
// memory with buf.
func Split(buf []byte, size int) ([]Chunk, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	n := Count(uint64(len(buf)), size)
	chunks := make([]Chunk, 0, n)
	for i := 0; i < n; i++ {
		start, end := Bounds(i, size, len(buf))
		chunks = append(chunks, Chunk{Index: i, Data: buf[start:end]})
	}
	return chunks, nil
}

// Reassemble concatenates chunks by index. The indices must cover [0, expected)
// exactly once.
func Reassemble(chunks []Chunk, expected int) ([]byte, error) {
	if expected < 0 {
		return nil, fmt.Errorf("%w: negative chunk count %d", ErrIncompleteTransfer, expected)
	}
	if len(chunks) != expected {
		return nil, fmt.Errorf("%w: got %d of %d chunks", ErrIncompleteTransfer, len(chunks), expected)
	}

	ordered := make([][]byte, expected)
	seen := make([]bool, expected)
	total := 0
	for _, c := range chunks {
		if c.Index < 0 || c.Index >= expected {
			return nil, fmt.Errorf("%w: chunk index %d out of range [0, %d)", ErrIncompleteTransfer, c.Index, expected)
		}
		if seen[c.Index] {
			return nil, fmt.Errorf("%w: duplicate chunk index %d", ErrIncompleteTransfer, c.Index)
		}
		seen[c.Index] = true
		ordered[c.Index] = c.Data
		total += len(c.Data)
	}

	if i := slices.Index(seen, false); i >= 0 {
		return nil, fmt.Errorf("%w: missing chunk index %d", ErrIncompleteTransfer, i)
	}

	buf := make([]byte, 0, total)
	for _, data := range ordered {
		buf = append(buf, data...)
	}
	return buf, nil
}
