// Package vocab holds the immutable lookup tables a tokenizer reads: the
// byte map, the span map, the pair-merge table and the special-token table,
// aggregated behind Vocabulary. None of these types expose a mutator once
// built; construction happens once, via NewVocabulary or a loader in
// vocab/io, and the result is shared by pointer across every goroutine that
// encodes or decodes against it.
package vocab

import (
	"math"

	"github.com/bpetok/wcerr"
)

// TokenType constrains the integer width a Vocabulary is instantiated over.
// uint32 is the documented default (enough headroom for every published
// OpenAI vocabulary); uint16 is valid only below 65536 tokens and uint64 is
// offered for vocabularies with no practical bound.
type TokenType interface {
	~uint16 | ~uint32 | ~uint64
}

// ToToken converts a non-negative int to T, failing with TokenOverflow if it
// doesn't fit the chosen width.
func ToToken[T TokenType](id int) (T, error) {
	if id < 0 {
		return 0, wcerr.New(wcerr.TokenOverflow, "negative token id %d", id)
	}
	t := T(id)
	if int(t) != id {
		return 0, wcerr.New(wcerr.TokenOverflow, "token id %d overflows token width", id)
	}
	return t, nil
}

// MaxTokenValue returns the largest representable value of T.
func MaxTokenValue[T TokenType]() uint64 {
	var z T
	switch any(z).(type) {
	case uint16:
		return math.MaxUint16
	case uint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// Pair is an ordered pair of adjacent token ids, the key of the pair-merge
// table. It is comparable, so it can key a plain Go map directly.
type Pair[T TokenType] struct {
	A, B T
}

// MergeInfo is the value side of the pair-merge table: the token produced by
// merging a pair, and its rank (lower rank merges first).
type MergeInfo[T TokenType] struct {
	Token T
	Rank  int
}
