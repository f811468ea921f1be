package vocab

import (
	"sort"

	"github.com/bpetok/wcerr"
)

// PairVocab is the pair-merge table: (a,b) -> (c, rank), plus its inverse
// c -> (a,b) (the "inverse split" BpeBacktrack needs). Per the no-object-graph
// design note, both directions are flat maps; there are no back-pointers.
//
// Rank is the token's own numeric value: every published tiktoken vocabulary
// assigns token ids in merge order, so "lower id" and "merged earlier" agree.
// A vocabulary loaded from an explicit merges list (the GPT-2 vocab.json +
// merges.txt format) instead carries the textual merge line index as rank,
// which is not always equal to the token id once special tokens are mixed
// in; PairVocab stores rank separately from the token id for that reason.
type PairVocab[T TokenType] struct {
	pairToInfo map[Pair[T]]MergeInfo[T]
	inverse    map[T]Pair[T]
	maxRank    int

	fastLookup     [][]packedInfo[T]
	fastLookupSize int
}

type packedInfo[T TokenType] struct {
	token T
	rank  int32
	ok    bool
}

// NewPairVocab builds a PairVocab from an explicit (a,b)->(c,rank) mapping.
// It rejects a table in which one token is produced by more than one merge.
// It does not check rank ordering: a merge whose rank is not greater than
// the ranks of the merges that produced its operands is accepted as given.
func NewPairVocab[T TokenType](entries map[Pair[T]]MergeInfo[T]) (*PairVocab[T], error) {
	pv := &PairVocab[T]{
		pairToInfo: make(map[Pair[T]]MergeInfo[T], len(entries)),
		inverse:    make(map[T]Pair[T], len(entries)),
	}
	for pair, info := range entries {
		if _, dup := pv.inverse[info.Token]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "token %v produced by more than one merge", info.Token)
		}
		pv.pairToInfo[pair] = info
		pv.inverse[info.Token] = pair
		if info.Rank > pv.maxRank {
			pv.maxRank = info.Rank
		}
	}
	pv.buildFastLookup()
	return pv, nil
}

const fastLookupCap = 2048

func (pv *PairVocab[T]) buildFastLookup() {
	size := fastLookupCap
	if len(pv.pairToInfo) < size {
		size = len(pv.pairToInfo)
	}
	if size == 0 {
		return
	}
	grid := make([][]packedInfo[T], size)
	for i := range grid {
		grid[i] = make([]packedInfo[T], size)
	}
	for pair, info := range pv.pairToInfo {
		a, b := int(pair.A), int(pair.B)
		if a >= 0 && a < size && b >= 0 && b < size {
			grid[a][b] = packedInfo[T]{token: info.Token, rank: int32(info.Rank), ok: true}
		}
	}
	pv.fastLookup = grid
	pv.fastLookupSize = size
}

// Lookup returns the merge result for an adjacent token pair, and whether a
// merge rule exists for it.
func (pv *PairVocab[T]) Lookup(a, b T) (MergeInfo[T], bool) {
	ai, bi := int(a), int(b)
	if ai >= 0 && ai < pv.fastLookupSize && bi >= 0 && bi < pv.fastLookupSize {
		p := pv.fastLookup[ai][bi]
		if p.ok {
			return MergeInfo[T]{Token: p.token, Rank: int(p.rank)}, true
		}
		return MergeInfo[T]{}, false
	}
	info, ok := pv.pairToInfo[Pair[T]{A: a, B: b}]
	return info, ok
}

// Split returns the pair that produced tok via merging, if tok is itself the
// result of a learned merge (as opposed to a base byte token).
func (pv *PairVocab[T]) Split(tok T) (Pair[T], bool) {
	p, ok := pv.inverse[tok]
	return p, ok
}

// MaxRank returns the highest rank assigned to any merge, used to size
// rank-bucketed priority queues ahead of time.
func (pv *PairVocab[T]) MaxRank() int { return pv.maxRank }

// DerivePairVocab reconstructs the pair-merge table from a SpanVocab and
// ByteVocab alone, for vocabulary formats (the base64 "<span> <id>" file,
// spec.md §6.1) that list spans and token ids but never an explicit merge
// list. This mirrors how tiktoken's own reference encoder treats a bytes
// vocabulary: a multi-byte token's rank-minimal split is recovered by
// repeatedly merging its lowest-rank adjacent byte range with the merge
// algorithm, stopping one merge short of the single final token, rather
// than by replaying a separately-recorded training history (grounded on
// the direct rank-map merge approach tiktoken implementations use when no
// merge list is present, as opposed to PairMapVocab's explicit-pairs path
// for formats that do carry one).
//
// Rank is taken to be the numeric token id: every OpenAI vocabulary assigns
// ids in merge order, so this holds for every base64-format file in the
// wild. If a non-byte token can't be split into exactly two known pieces,
// the vocabulary itself is malformed.
func DerivePairVocab[T TokenType](bv *ByteVocab[T], sv *SpanVocab[T]) (*PairVocab[T], error) {
	type tokenSpan struct {
		tok   T
		bytes []byte
	}
	var multiByte []tokenSpan
	sv.Each(func(tok T, span []byte) {
		if len(span) > 1 {
			multiByte = append(multiByte, tokenSpan{tok: tok, bytes: span})
		}
	})
	sort.Slice(multiByte, func(i, j int) bool { return multiByte[i].tok < multiByte[j].tok })

	entries := make(map[Pair[T]]MergeInfo[T], len(multiByte))
	for _, ts := range multiByte {
		a, b, err := splitLowestRank(ts.bytes, bv, sv)
		if err != nil {
			return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "deriving merge split for token %v", ts.tok)
		}
		pair := Pair[T]{A: a, B: b}
		if _, dup := entries[pair]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "pair %v already produces a different token", pair)
		}
		entries[pair] = MergeInfo[T]{Token: ts.tok, Rank: int(ts.tok)}
	}
	return NewPairVocab(entries)
}

// splitLowestRank finds the canonical two-piece split of a multi-byte span:
// repeatedly merge the adjacent byte range with the lowest-rank (smallest
// token id) known span until exactly two pieces remain, then return their
// tokens. This is the same greedy reduction the span encoders themselves
// perform, just halted one step early.
func splitLowestRank[T TokenType](span []byte, bv *ByteVocab[T], sv *SpanVocab[T]) (T, T, error) {
	pieces := make([][]byte, len(span))
	for i, b := range span {
		pieces[i] = span[i : i+1]
		_ = b
	}

	rankOf := func(piece []byte) (int, bool) {
		if tok, ok := sv.Lookup(piece); ok {
			return int(tok), true
		}
		return 0, false
	}

	for len(pieces) > 2 {
		bestIdx, bestRank := -1, -1
		for i := 0; i < len(pieces)-1; i++ {
			merged := append(append([]byte{}, pieces[i]...), pieces[i+1]...)
			rank, ok := rankOf(merged)
			if !ok {
				continue
			}
			if bestIdx == -1 || rank < bestRank {
				bestIdx, bestRank = i, rank
			}
		}
		if bestIdx == -1 {
			return 0, 0, wcerr.New(wcerr.MalformedVocab, "no mergeable adjacent pair found while splitting %q", span)
		}
		merged := append(append([]byte{}, pieces[bestIdx]...), pieces[bestIdx+1]...)
		next := make([][]byte, 0, len(pieces)-1)
		next = append(next, pieces[:bestIdx]...)
		next = append(next, merged)
		next = append(next, pieces[bestIdx+2:]...)
		pieces = next
	}

	leftTok, ok := tokenOf(pieces[0], bv, sv)
	if !ok {
		return 0, 0, wcerr.New(wcerr.MalformedVocab, "left split piece %q not in vocabulary", pieces[0])
	}
	rightTok, ok := tokenOf(pieces[1], bv, sv)
	if !ok {
		return 0, 0, wcerr.New(wcerr.MalformedVocab, "right split piece %q not in vocabulary", pieces[1])
	}
	return leftTok, rightTok, nil
}

func tokenOf[T TokenType](piece []byte, bv *ByteVocab[T], sv *SpanVocab[T]) (T, bool) {
	if len(piece) == 1 {
		return bv.Token(piece[0]), true
	}
	return sv.Lookup(piece)
}
