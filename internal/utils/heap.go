// Package utils holds the small merge-queue data structures shared by the
// concurrent and single-threaded span encoders: a binary heap and a bucket
// queue over MergeCand, both keyed on a merge candidate's rank.
package utils

// MergeCand is a candidate merge: the pair at token buffer position Pos with
// the given Rank, plus the token values and liveness versions observed when
// the candidate was queued. An encoder revalidates Left/Right/VerL/VerR
// against current buffer state before acting on a popped candidate, since an
// earlier merge elsewhere may have invalidated it.
type MergeCand struct {
	Rank  int // lower wins
	Pos   int // left index; lower wins on tie to enforce leftmost
	Left  int
	Right int
	VerL  int
	VerR  int
}

const defaultHeapPrealloc = 8192

// MergeHeap is a manual binary min-heap over MergeCand, ordered by (Rank, Pos).
// Kept as a hand-rolled heap rather than container/heap so callers can Reset
// and reuse the backing array across many encode calls without an interface
// indirection on every Push/Pop.
type MergeHeap struct {
	items        []MergeCand
	preAllocated bool
}

// NewMergeHeap returns an empty heap. Pass true to pre-size its backing array
// for long-running encoders that expect many merges per call.
func NewMergeHeap(preAlloc ...bool) *MergeHeap {
	shouldPreAlloc := len(preAlloc) > 0 && preAlloc[0]

	cap := 64
	if shouldPreAlloc {
		cap = defaultHeapPrealloc
	}

	return &MergeHeap{
		items:        make([]MergeCand, 0, cap),
		preAllocated: shouldPreAlloc,
	}
}

func (h *MergeHeap) Len() int { return len(h.items) }

func less(a, b MergeCand) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Pos < b.Pos
}

func (h *MergeHeap) Push(c MergeCand) {
	h.items = append(h.items, c)
	h.up(len(h.items) - 1)
}

func (h *MergeHeap) Pop() (MergeCand, bool) {
	if len(h.items) == 0 {
		return MergeCand{}, false
	}

	n := len(h.items) - 1
	h.items[0], h.items[n] = h.items[n], h.items[0]

	result := h.items[n]
	h.items = h.items[:n]

	if len(h.items) > 0 {
		h.down(0)
	}

	return result, true
}

func (h *MergeHeap) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !less(h.items[i], h.items[parent]) {
			break
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

func (h *MergeHeap) down(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i

		if left < n && less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// Reset empties the heap. Pre-allocated heaps keep their backing array.
func (h *MergeHeap) Reset() {
	if h.preAllocated {
		h.items = h.items[:0]
	} else {
		h.items = nil
	}
}
