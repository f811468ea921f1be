// Package encoders implements the five span-encoder algorithms that turn a
// single Word span's bytes into a token sequence by repeatedly applying the
// lowest-rank available pair merge: BufferSweep (the reference/oracle),
// TailSweep, MergeHeap (the concurrent default), PriorityMerge (the
// single-thread default), and BpeBacktrack.
package encoders

import "github.com/bpetok/vocab"

// SpanEncoder encodes one Word span's bytes and appends the resulting
// tokens to tokens. Implementations may keep reusable scratch state and are
// therefore not safe for concurrent use by multiple goroutines without
// separate instances (spec.md §5's per-goroutine pooling requirement).
type SpanEncoder[T vocab.TokenType] interface {
	EncodeAppend(v *vocab.Vocabulary[T], span []byte, tokens []T) []T
}

// appendByteTokens fills tokens with the direct byte-token translation of
// span, the common starting point for every encoder below.
func appendByteTokens[T vocab.TokenType](bv *vocab.ByteVocab[T], span []byte, tokens []T) []T {
	for _, b := range span {
		tokens = append(tokens, bv.Token(b))
	}
	return tokens
}

// fastPath is the mandatory shortcut every encoder tries first: if span
// exactly matches a span-map key, the whole BPE reduction is skipped.
func fastPath[T vocab.TokenType](v *vocab.Vocabulary[T], span []byte, tokens []T) ([]T, bool) {
	if tok, ok := v.Spans.Lookup(span); ok {
		return append(tokens, tok), true
	}
	return tokens, false
}
