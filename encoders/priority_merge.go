package encoders

import (
	"github.com/bpetok/internal/utils"
	"github.com/bpetok/vocab"
)

// PriorityMerge is the single-thread-default span encoder. It is structurally
// identical to MergeHeap — a doubly-linked list of live tokens plus a
// revalidate-on-pop merge queue — but draws candidates from a binary min-heap
// ordered by (rank, position) instead of a rank-bucketed queue, trading
// MergeHeap's O(1)-amortized push/pop for O(log n) push/pop and no bucket
// array sized to the vocabulary's rank range. For the short spans a
// single-threaded call typically sees, heap overhead is negligible and the
// heap never needs to be pre-sized to maxRank.
type PriorityMerge[T vocab.TokenType] struct {
	tokens []T
	prev   []int
	next   []int
	live   []int
	heap   *utils.MergeHeap
}

func NewPriorityMerge[T vocab.TokenType]() *PriorityMerge[T] {
	return &PriorityMerge[T]{heap: utils.NewMergeHeap(true)}
}

func (e *PriorityMerge[T]) EncodeAppend(v *vocab.Vocabulary[T], span []byte, tokens []T) []T {
	if out, ok := fastPath(v, span, tokens); ok {
		return out
	}

	n := len(span)
	if n == 0 {
		return tokens
	}

	e.tokens = ensureCapacity(e.tokens, n)
	e.prev = ensureIntCapacity(e.prev, n)
	e.next = ensureIntCapacity(e.next, n)
	e.live = ensureIntCapacity(e.live, n)
	e.heap.Reset()

	for i, b := range span {
		e.tokens[i] = v.Bytes.Token(b)
		e.prev[i] = i - 1
		e.next[i] = i + 1
		e.live[i] = 0
	}
	e.prev[0] = mergeNone
	e.next[n-1] = mergeNone

	pushIfMergeable := func(i int) {
		if i == mergeNone {
			return
		}
		j := e.next[i]
		if j == mergeNone {
			return
		}
		a, b := e.tokens[i], e.tokens[j]
		info, ok := v.Pairs.Lookup(a, b)
		if !ok {
			return
		}
		e.heap.Push(utils.MergeCand{
			Rank:  info.Rank,
			Pos:   i,
			Left:  int(a),
			Right: int(b),
			VerL:  e.live[i],
			VerR:  e.live[j],
		})
	}

	for i := 0; i != mergeNone && e.next[i] != mergeNone; i = e.next[i] {
		pushIfMergeable(i)
	}

	for {
		c, ok := e.heap.Pop()
		if !ok {
			break
		}
		i := c.Pos
		j := e.next[i]
		if j == mergeNone {
			continue
		}
		if e.live[i] != c.VerL || e.live[j] != c.VerR {
			continue
		}

		a, b := e.tokens[i], e.tokens[j]
		if int(a) != c.Left || int(b) != c.Right {
			continue
		}

		info, ok := v.Pairs.Lookup(a, b)
		if !ok || info.Rank != c.Rank {
			continue
		}

		e.tokens[i] = info.Token

		nj := e.next[j]
		e.next[i] = nj
		if nj != mergeNone {
			e.prev[nj] = i
		}
		e.prev[j], e.next[j] = mergeNone, mergeNone

		e.live[i]++
		e.live[j]++

		if pi := e.prev[i]; pi != mergeNone {
			pushIfMergeable(pi)
		}
		pushIfMergeable(i)
	}

	for i := 0; i != mergeNone; i = e.next[i] {
		tokens = append(tokens, e.tokens[i])
	}
	return tokens
}
