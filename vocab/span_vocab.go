package vocab

import "github.com/bpetok/wcerr"

// SpanVocab maps a non-empty byte sequence to its unique token, and holds
// the inverse (token -> bytes) used for decoding. It holds every regular
// token: the 256 base bytes plus every learned merge. Special tokens live in
// SpecialVocab instead, since their names are matched literally rather than
// looked up by encoded span bytes.
type SpanVocab[T TokenType] struct {
	forward map[string]T
	inverse map[T][]byte
	maxLen  int
}

// NewSpanVocab builds a SpanVocab from an explicit span->token assignment.
// Keys and token ids must each be unique.
func NewSpanVocab[T TokenType](entries map[string]T) (*SpanVocab[T], error) {
	sv := &SpanVocab[T]{
		forward: make(map[string]T, len(entries)),
		inverse: make(map[T][]byte, len(entries)),
	}
	for span, tok := range entries {
		if len(span) == 0 {
			return nil, wcerr.New(wcerr.MalformedVocab, "span map contains empty-key entry")
		}
		if _, dup := sv.inverse[tok]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "token %v assigned to more than one span", tok)
		}
		sv.forward[span] = tok
		sv.inverse[tok] = []byte(span)
		if len(span) > sv.maxLen {
			sv.maxLen = len(span)
		}
	}
	return sv, nil
}

// Lookup returns the token for an exact span match (the fast path every
// span encoder must try before falling back to BPE merging).
func (sv *SpanVocab[T]) Lookup(span []byte) (T, bool) {
	tok, ok := sv.forward[string(span)]
	return tok, ok
}

// Bytes returns the byte sequence a regular token decodes to.
func (sv *SpanVocab[T]) Bytes(tok T) ([]byte, bool) {
	b, ok := sv.inverse[tok]
	return b, ok
}

// Len returns the number of regular (non-special) tokens.
func (sv *SpanVocab[T]) Len() int { return len(sv.forward) }

// MaxSpanLen returns the longest span's byte length, used by encoders that
// size scratch buffers or greedy-match windows ahead of time.
func (sv *SpanVocab[T]) MaxSpanLen() int { return sv.maxLen }

// Each calls f once per (token, bytes) pair, for callers that need to walk
// every regular token (vocabulary validation, pair-table derivation).
func (sv *SpanVocab[T]) Each(f func(tok T, span []byte)) {
	for tok, b := range sv.inverse {
		f(tok, b)
	}
}
