// Package chunk partitions selected fragments into fixed-size batches.
// Batches preserve document order; the last one may be short.
package chunk

// DefaultSize is the batch size used when none is configured.
const DefaultSize = 3

// Chunker splits items into batches of at most Size.
type Chunker struct {
	Size int
}

// New creates a Chunker with the given batch size.
// Defaults to DefaultSize if size <= 0.
func New(size int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	return &Chunker{Size: size}
}

// Split returns the batches of items. The batches share the backing array
// of items.
func Split[T any](c *Chunker, items []T) [][]T {
	if len(items) == 0 {
		return nil
	}

	var batches [][]T
	for i := 0; i < len(items); i += c.Size {
		end := min(i+c.Size, len(items))
		batches = append(batches, items[i:end:end])
	}
	return batches
}
