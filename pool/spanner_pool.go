package pool

import "github.com/bpetok/spanning"

// SpannerPool checks out a spanning.Spanner per goroutine. The regex backend
// is the one spec.md §5 singles out as not thread-safe (regexp2 match state);
// the DFA backend is a stateless scan and would be safe to share directly,
// but pooling it too keeps callers from needing to branch on backend.
type SpannerPool struct {
	pool *Pool[spanning.Spanner]
}

// NewSpannerPool builds a pool that manufactures spanners via newFn on a
// miss (typically a closure over one already-compiled pattern/vocabulary).
func NewSpannerPool(newFn func() spanning.Spanner) *SpannerPool {
	return &SpannerPool{pool: New(newFn)}
}

func (sp *SpannerPool) Get() spanning.Spanner  { return sp.pool.Get() }
func (sp *SpannerPool) Put(s spanning.Spanner) { sp.pool.Put(s) }
