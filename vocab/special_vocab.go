package vocab

import "github.com/bpetok/wcerr"

// SpecialVocab is the set of (name, token_id) pairs matched literally during
// spanning, never produced by BPE encoding of ordinary text. Iteration order
// is unspecified, matching spec.md §3.
type SpecialVocab[T TokenType] struct {
	nameToToken map[string]T
	tokenToName map[T]string
	names       []string // longest-first, for greedy literal matching
}

// NewSpecialVocab builds a SpecialVocab from an explicit name->token table.
// Names and ids must each be unique, and disjoint from regular token ids is
// the caller's responsibility to enforce against the owning Vocabulary.
func NewSpecialVocab[T TokenType](entries map[string]T) (*SpecialVocab[T], error) {
	sv := &SpecialVocab[T]{
		nameToToken: make(map[string]T, len(entries)),
		tokenToName: make(map[T]string, len(entries)),
	}
	for name, tok := range entries {
		if len(name) == 0 {
			return nil, wcerr.New(wcerr.MalformedVocab, "special token has empty name")
		}
		if _, dup := sv.tokenToName[tok]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "special token id %v assigned to more than one name", tok)
		}
		sv.nameToToken[name] = tok
		sv.tokenToName[tok] = name
		sv.names = append(sv.names, name)
	}
	sortLongestFirst(sv.names)
	return sv, nil
}

func sortLongestFirst(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && len(names[j-1]) < len(names[j]); j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
}

// Token returns the token id for a literal special-token name.
func (sv *SpecialVocab[T]) Token(name string) (T, bool) {
	tok, ok := sv.nameToToken[name]
	return tok, ok
}

// Name returns the literal name of a special token id, for decoding.
func (sv *SpecialVocab[T]) Name(tok T) (string, bool) {
	name, ok := sv.tokenToName[tok]
	return name, ok
}

// IsSpecial reports whether tok is a special token.
func (sv *SpecialVocab[T]) IsSpecial(tok T) bool {
	_, ok := sv.tokenToName[tok]
	return ok
}

// Names returns every special-token name, longest first (the order a greedy
// literal matcher should try them in).
func (sv *SpecialVocab[T]) Names() []string { return sv.names }

// Len returns the number of special tokens.
func (sv *SpecialVocab[T]) Len() int { return len(sv.nameToToken) }
