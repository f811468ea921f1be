package encoders

import "github.com/bpetok/vocab"

// BufferSweep is the reference span encoder: repeatedly rescans a persistent
// working buffer for the globally lowest-rank adjacent pair and merges it,
// until no pair in the buffer has a known merge. O(n^2) in span length, but
// simple enough to serve as the oracle every other encoder is checked
// against (spec.md testable property 4).
type BufferSweep[T vocab.TokenType] struct {
	working []T
}

func NewBufferSweep[T vocab.TokenType]() *BufferSweep[T] {
	return &BufferSweep[T]{}
}

func (e *BufferSweep[T]) EncodeAppend(v *vocab.Vocabulary[T], span []byte, tokens []T) []T {
	if out, ok := fastPath(v, span, tokens); ok {
		return out
	}

	e.working = e.working[:0]
	e.working = appendByteTokens(v.Bytes, span, e.working)

	for len(e.working) > 1 {
		bestIdx := -1
		var bestRank int
		var bestTok T
		for i := 0; i+1 < len(e.working); i++ {
			info, ok := v.Pairs.Lookup(e.working[i], e.working[i+1])
			if !ok {
				continue
			}
			if bestIdx == -1 || info.Rank < bestRank {
				bestIdx, bestRank, bestTok = i, info.Rank, info.Token
			}
		}
		if bestIdx == -1 {
			break
		}
		e.working[bestIdx] = bestTok
		e.working = append(e.working[:bestIdx+1], e.working[bestIdx+2:]...)
	}

	return append(tokens, e.working...)
}
