package graph

import "iter"

// DefaultBatchSize bounds the rows sent in one UNWIND statement. Node
// payloads with many properties are slower to plan in large batches, so the
// default stays in the few-hundred range.
const DefaultBatchSize = 500

// Batches yields the [start, end) bounds that split n items into runs of at
// most size. A size below one yields a single run covering everything.
func Batches(n, size int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if size < 1 {
			size = n
		}
		for start := 0; start < n; start += size {
			if !yield(start, min(start+size, n)) {
				return
			}
		}
	}
}
