package encoders

import "github.com/bpetok/vocab"

// TailSweep is BufferSweep's sibling: instead of a separate working buffer,
// it appends the span's byte tokens directly to the tail of the caller's
// output buffer and sweeps that tail in place, avoiding BufferSweep's extra
// copy at the cost of reusing (and thus, in principle, working within) the
// caller's slice.
type TailSweep[T vocab.TokenType] struct{}

func NewTailSweep[T vocab.TokenType]() *TailSweep[T] {
	return &TailSweep[T]{}
}

func (e *TailSweep[T]) EncodeAppend(v *vocab.Vocabulary[T], span []byte, tokens []T) []T {
	if out, ok := fastPath(v, span, tokens); ok {
		return out
	}

	start := len(tokens)
	tokens = appendByteTokens(v.Bytes, span, tokens)

	stop := start + 2
	for len(tokens) >= stop {
		bestIdx := -1
		var bestRank int
		var bestTok T
		for i := start; i+1 < len(tokens); i++ {
			info, ok := v.Pairs.Lookup(tokens[i], tokens[i+1])
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
		tokens[bestIdx] = bestTok
		tokens = append(tokens[:bestIdx+1], tokens[bestIdx+2:]...)
	}

	return tokens
}
