package encoders

import (
	"github.com/bpetok/internal/utils"
	"github.com/bpetok/vocab"
)

// mergeNone marks an absent doubly-linked-list neighbor.
const mergeNone = -1

// MergeHeap is the concurrent-default span encoder: byte tokens are laid
// out in a doubly-linked list, every adjacent mergeable pair is queued in a
// rank-bucketed priority queue, and the lowest-rank candidate is repeatedly
// popped, revalidated against a per-slot liveness version (to detect merges
// that happened elsewhere in the list since the candidate was queued), and
// applied. The token and link buffers are reused across calls on one
// instance; the bucket queue is allocated afresh on every call.
type MergeHeap[T vocab.TokenType] struct {
	tokens []T
	prev   []int
	next   []int
	live   []int
}

func NewMergeHeap[T vocab.TokenType]() *MergeHeap[T] {
	return &MergeHeap[T]{}
}

func (e *MergeHeap[T]) EncodeAppend(v *vocab.Vocabulary[T], span []byte, tokens []T) []T {
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

	for i, b := range span {
		e.tokens[i] = v.Bytes.Token(b)
		e.prev[i] = i - 1
		e.next[i] = i + 1
		e.live[i] = 0
	}
	e.prev[0] = mergeNone
	e.next[n-1] = mergeNone

	h := utils.NewBucketQueue(v.Pairs.MaxRank())

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
		h.Push(utils.MergeCand{
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
		c, ok := h.Pop()
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

func ensureCapacity[T vocab.TokenType](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

func ensureIntCapacity(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}
