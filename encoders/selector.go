package encoders

import "github.com/bpetok/vocab"

// Selector names one of the five span-encoder algorithms, matching spec.md
// §4.2.6's enumeration: Reference (the BufferSweep oracle), TailSweep,
// ConcurrentDefault (MergeHeap), SingleThreadDefault (PriorityMerge), and
// BpeBacktrack.
type Selector int

const (
	Reference Selector = iota
	TailSweepSelector
	ConcurrentDefault
	SingleThreadDefault
	BpeBacktrackSelector
)

// New builds the SpanEncoder an instance named by sel would use. bpe is only
// consulted for BpeBacktrackSelector and may be nil otherwise; callers that
// never select BpeBacktrack never need to build a BpeVocab.
func New[T vocab.TokenType](sel Selector, bpe *BpeVocab[T]) SpanEncoder[T] {
	switch sel {
	case Reference:
		return NewBufferSweep[T]()
	case TailSweepSelector:
		return NewTailSweep[T]()
	case ConcurrentDefault:
		return NewMergeHeap[T]()
	case SingleThreadDefault:
		return NewPriorityMerge[T]()
	case BpeBacktrackSelector:
		return NewBpeBacktrack(bpe)
	default:
		return NewPriorityMerge[T]()
	}
}
