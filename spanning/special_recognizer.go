package spanning

import "github.com/bpetok/vocab"

// SpecialRecognizer finds literal special-token matches in text, ahead of
// (and interleaved with) word spanning, so a special token can never be
// split by the word pattern. Resolves the open question spec.md §9 leaves
// explicit: special tokens are matched before regex/DFA pre-tokenization.
type SpecialRecognizer[T vocab.TokenType] struct {
	special     *vocab.SpecialVocab[T]
	byFirstByte map[byte][]string // each bucket sorted longest-name-first
}

// NewSpecialRecognizer indexes a vocabulary's special-token names by their
// first byte, so a scan only compares against names that could possibly
// match at a given position.
func NewSpecialRecognizer[T vocab.TokenType](special *vocab.SpecialVocab[T]) *SpecialRecognizer[T] {
	r := &SpecialRecognizer[T]{
		special:     special,
		byFirstByte: make(map[byte][]string),
	}
	for _, name := range special.Names() {
		b := name[0]
		r.byFirstByte[b] = append(r.byFirstByte[b], name)
	}
	return r
}

// Next finds the earliest special-token match at or after `from`, returning
// its byte range and token id. ok is false if no special token occurs in
// text[from:].
func (r *SpecialRecognizer[T]) Next(text []byte, from int) (start, end int, tok T, ok bool) {
	for i := from; i < len(text); i++ {
		candidates := r.byFirstByte[text[i]]
		for _, name := range candidates {
			if i+len(name) <= len(text) && string(text[i:i+len(name)]) == name {
				id, _ := r.special.Token(name)
				return i, i + len(name), id, true
			}
		}
	}
	return 0, 0, 0, false
}
