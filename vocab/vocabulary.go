package vocab

import "github.com/bpetok/wcerr"

// DFAFamily tags which hand-built deterministic lexer a Vocabulary's DFA
// backend should use, when one is available. A family of "" means no DFA
// backend exists for this vocabulary and the regex backend is mandatory.
type DFAFamily string

const (
	DFANone    DFAFamily = ""
	DFACl100k  DFAFamily = "cl100k"
	DFAO200k   DFAFamily = "o200k"
	DFAR50kP50 DFAFamily = "r50k_p50k"
)

// Vocabulary aggregates the byte map, span map, pair-merge table and
// special-token table, plus the pre-tokenization pattern, behind a single
// immutable handle. It is built once (by NewVocabulary or a loader in
// vocab/io) and never mutated afterward; every encoder and decoder holds it
// by pointer and shares it freely across goroutines.
type Vocabulary[T TokenType] struct {
	Name    string
	Bytes   *ByteVocab[T]
	Spans   *SpanVocab[T]
	Pairs   *PairVocab[T]
	Special *SpecialVocab[T]

	Pattern   string
	DFAFamily DFAFamily
}

// NewVocabulary assembles and validates a Vocabulary from its parts. It
// checks the cross-table invariants spec.md §3 requires: every pair-merge
// result must be a span-map member whose bytes equal the concatenation of
// its two operands, and special-token ids must be disjoint from regular
// token ids.
func NewVocabulary[T TokenType](name string, bytes *ByteVocab[T], spans *SpanVocab[T], pairs *PairVocab[T], special *SpecialVocab[T], pattern string, dfa DFAFamily) (*Vocabulary[T], error) {
	v := &Vocabulary[T]{
		Name:      name,
		Bytes:     bytes,
		Spans:     spans,
		Pairs:     pairs,
		Special:   special,
		Pattern:   pattern,
		DFAFamily: dfa,
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocabulary[T]) validate() error {
	for pair, info := range v.Pairs.pairToInfo {
		resultBytes, ok := v.Spans.Bytes(info.Token)
		if !ok {
			return wcerr.New(wcerr.MalformedVocab, "pair-merge result %v is absent from the span map", info.Token)
		}
		aBytes, ok := tokenBytes(v, pair.A)
		if !ok {
			return wcerr.New(wcerr.MalformedVocab, "pair-merge operand %v is absent from the span map", pair.A)
		}
		bBytes, ok := tokenBytes(v, pair.B)
		if !ok {
			return wcerr.New(wcerr.MalformedVocab, "pair-merge operand %v is absent from the span map", pair.B)
		}
		if string(resultBytes) != string(aBytes)+string(bBytes) {
			return wcerr.New(wcerr.MalformedVocab, "merge %v+%v does not concatenate to token %v's bytes", pair.A, pair.B, info.Token)
		}
	}

	if v.Special != nil {
		for name, tok := range v.Special.nameToToken {
			if _, ok := v.Spans.Bytes(tok); ok {
				return wcerr.New(wcerr.MalformedVocab, "special token %q id %v collides with a regular token", name, tok)
			}
		}
	}
	return nil
}

func tokenBytes[T TokenType](v *Vocabulary[T], tok T) ([]byte, bool) {
	if b, ok := v.Bytes.Byte(tok); ok {
		return []byte{b}, true
	}
	return v.Spans.Bytes(tok)
}

// MaxTokenByteLen returns the longest byte sequence any regular token
// decodes to, used to size streaming tail-reserve buffers.
func (v *Vocabulary[T]) MaxTokenByteLen() int { return v.Spans.MaxSpanLen() }
