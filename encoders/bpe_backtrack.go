package encoders

import (
	"math"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/bpetok/vocab"
)

// noPrefix marks a token with no shorter known prefix in nextPrefix, and
// doubles as the sentinel "infinitely large token" used by isValidTokenPair.
// Safe because no real vocabulary's token count approaches T's maximum value.
func noPrefix[T vocab.TokenType]() T {
	max := uint64(math.MaxUint64)
	if v := vocab.MaxTokenValue[T](); v < max {
		max = v
	}
	return T(max)
}

// BpeVocab is the precomputed index the BpeBacktrack encoder runs against:
// an Aho-Corasick automaton over every token's byte sequence for
// leftmost-longest prefix matching, plus the pair/split tables needed to
// validate merge boundaries and fall back to shorter prefixes. Built once
// per vocabulary and shared across goroutines (it is read-only after
// construction).
type BpeVocab[T vocab.TokenType] struct {
	pairLookup map[vocab.Pair[T]]T
	splitTable []vocab.Pair[T]
	nextPrefix []T
	tokenLens  []int
	ac         ahocorasick.AhoCorasick
	acTokens   []T
}

// NewBpeVocab builds a BpeVocab from a Vocabulary's byte and span tables.
func NewBpeVocab[T vocab.TokenType](v *vocab.Vocabulary[T]) *BpeVocab[T] {
	type entry struct {
		bytes []byte
		tok   T
	}
	// Spans already enumerates every regular token, byte-level ones included
	// (a loader always assigns a single-byte token's own bytes into the span
	// map alongside the byte map), so there is no separate byte-level pass.
	var entries []entry
	v.Spans.Each(func(tok T, span []byte) {
		entries = append(entries, entry{bytes: append([]byte{}, span...), tok: tok})
	})

	// Insertion sort by token id (= rank); vocabularies are small enough
	// that a simple sort keeps this grounded without pulling in sort.Slice
	// generics boilerplate for a one-time build step.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].tok < entries[j-1].tok; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	tableSize := 0
	if len(entries) > 0 {
		tableSize = int(entries[len(entries)-1].tok) + 1
	}

	tokenLens := make([]int, tableSize)
	patterns := make([]string, len(entries))
	acTokens := make([]T, len(entries))
	for i, e := range entries {
		tokenLens[int(e.tok)] = len(e.bytes)
		patterns[i] = string(e.bytes)
		acTokens[i] = e.tok
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	ac := builder.Build(patterns)

	sentinel := noPrefix[T]()
	nextPrefix := make([]T, tableSize)
	for i := range nextPrefix {
		nextPrefix[i] = sentinel
	}
	findLongest := func(ac ahocorasick.AhoCorasick, haystack string) (T, int, int, bool) {
		it := ac.Iter(haystack)
		m := it.Next()
		if m == nil {
			return T(0), 0, 0, false
		}
		return acTokens[m.Pattern()], m.Start(), m.End(), true
	}

	for _, e := range entries {
		if len(e.bytes) <= 1 {
			continue
		}
		prefixBytes := e.bytes[:len(e.bytes)-1]
		if tok, _, _, ok := findLongest(ac, string(prefixBytes)); ok {
			nextPrefix[int(e.tok)] = tok
		}
	}

	bv := &BpeVocab[T]{
		pairLookup: make(map[vocab.Pair[T]]T),
		splitTable: make([]vocab.Pair[T], tableSize),
		nextPrefix: nextPrefix,
		tokenLens:  tokenLens,
		ac:         ac,
		acTokens:   acTokens,
	}

	for _, e := range entries {
		id := int(e.tok)
		prefixTok := nextPrefix[id]
		found := false

		for prefixTok != sentinel {
			prefixLen := tokenLens[int(prefixTok)]
			suffixBytes := e.bytes[prefixLen:]
			if suffixTok, start, end, ok := findLongest(ac, string(suffixBytes)); ok {
				if start == 0 && end == len(suffixBytes) && prefixTok < e.tok && suffixTok < e.tok &&
					bv.isValidTokenPair(prefixTok, suffixTok) {
					pair := vocab.Pair[T]{A: prefixTok, B: suffixTok}
					bv.pairLookup[pair] = e.tok
					bv.splitTable[id] = pair
					found = true
					break
				}
			}
			prefixTok = nextPrefix[int(prefixTok)]
		}
		if !found {
			bv.splitTable[id] = vocab.Pair[T]{A: e.tok, B: e.tok}
		}
	}

	return bv
}

func (bv *BpeVocab[T]) nextMatch(text []byte) (T, bool) {
	it := bv.ac.Iter(string(text))
	m := it.Next()
	if m == nil {
		return T(0), false
	}
	return bv.acTokens[m.Pattern()], true
}

func (bv *BpeVocab[T]) nextPrefixOf(tok T) (T, bool) {
	p := bv.nextPrefix[int(tok)]
	if p == noPrefix[T]() {
		return T(0), false
	}
	return p, true
}

func (bv *BpeVocab[T]) tokenLen(tok T) int {
	return bv.tokenLens[int(tok)]
}

// isValidTokenPair recursively undoes merges via splitTable to check that no
// lower-rank merge rule would combine bytes across the boundary between
// token1 and token2.
func (bv *BpeVocab[T]) isValidTokenPair(token1, token2 T) bool {
	limit := noPrefix[T]()
	for {
		if combined, ok := bv.pairLookup[vocab.Pair[T]{A: token1, B: token2}]; ok && combined < limit {
			return false
		}
		if token1 > token2 {
			limit = token1
			token1 = bv.splitTable[int(token1)].B
			if token1 == limit {
				limit = token2 + 1
				token2 = bv.splitTable[int(token2)].A
				if token2+1 == limit {
					return true
				}
			}
		} else {
			limit = token2 + 1
			token2 = bv.splitTable[int(token2)].A
			if token2+1 == limit {
				limit = token1
				token1 = bv.splitTable[int(token1)].B
				if token1 == limit {
					return true
				}
			}
		}
	}
}

// bitField is a bit-packed visited-position tracker used while backtracking,
// matching the word layout of a u64-word bitset: one bit per byte offset in
// the span being encoded, all initially set.
type bitField struct {
	words []uint64
}

func newBitField(bits int) *bitField {
	return &bitField{words: make([]uint64, (bits+63)/64)}
}

func (bf *bitField) reset(bits int) {
	needed := (bits + 63) / 64
	if cap(bf.words) < needed {
		bf.words = make([]uint64, needed)
	} else {
		bf.words = bf.words[:needed]
	}
	for i := range bf.words {
		bf.words[i] = ^uint64(0)
	}
}

func (bf *bitField) isSet(bit int) bool {
	return bf.words[bit/64]&(1<<uint(bit%64)) != 0
}

func (bf *bitField) clear(bit int) {
	bf.words[bit/64] &^= 1 << uint(bit%64)
}

// BpeBacktrack encodes a span by greedily taking the longest Aho-Corasick
// match, validating it against the previously accepted token, shrinking to
// shorter known prefixes on validation failure, and backtracking by popping
// the previous token when no prefix at the current position works.
type BpeBacktrack[T vocab.TokenType] struct {
	vocab *BpeVocab[T]
	bf    *bitField
}

// NewBpeBacktrack wraps a precomputed BpeVocab. Construct one BpeVocab per
// vocabulary and share it across as many BpeBacktrack instances as needed;
// the instance itself holds only the per-call scratch bitfield.
func NewBpeBacktrack[T vocab.TokenType](bv *BpeVocab[T]) *BpeBacktrack[T] {
	return &BpeBacktrack[T]{vocab: bv, bf: newBitField(0)}
}

func (e *BpeBacktrack[T]) EncodeAppend(v *vocab.Vocabulary[T], span []byte, tokens []T) []T {
	if len(span) == 0 {
		return tokens
	}
	if out, ok := fastPath(v, span, tokens); ok {
		return out
	}

	bpe := e.vocab
	e.bf.reset(len(span) + 1)

	pos := 0
	base := len(tokens)
	nextToken, ok := bpe.nextMatch(span)

	for ok {
		token := nextToken
		var last T
		hasLast := len(tokens) > base
		if hasLast {
			last = tokens[len(tokens)-1]
		}

		for {
			endPos := pos + bpe.tokenLen(token)
			if e.bf.isSet(endPos) && (!hasLast || bpe.isValidTokenPair(last, token)) {
				tokens = append(tokens, token)
				pos = endPos
				nextToken, ok = bpe.nextMatch(span[endPos:])
				break
			}
			if shorter, hasShorter := bpe.nextPrefixOf(token); hasShorter {
				token = shorter
				continue
			}
			e.bf.clear(pos)
			if hasLast {
				tokens = tokens[:len(tokens)-1]
				pos -= bpe.tokenLen(last)
				nextToken, ok = last, true
			} else {
				ok = false
			}
			break
		}
	}

	return tokens
}
