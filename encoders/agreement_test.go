package encoders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpetok/vocab"
)

// buildAgreementVocab assembles a small byte+merge vocabulary deep enough to
// expose a buggy encoder: several merge rounds chained through shared
// prefixes ("wo"->"wor"->"word", "he"->"hel"->"hell"->"helllo", the last
// step reusing the earlier "lo").
func buildAgreementVocab(t *testing.T) *vocab.Vocabulary[uint32] {
	t.Helper()

	byteAssignment := make(map[byte]uint32, 256)
	spanEntries := make(map[string]uint32, 256)
	for b := 0; b < 256; b++ {
		byteAssignment[byte(b)] = uint32(b)
		spanEntries[string([]byte{byte(b)})] = uint32(b)
	}
	bv, err := vocab.NewByteVocab(byteAssignment)
	if err != nil {
		t.Fatalf("byte vocab: %v", err)
	}

	pairEntries := map[vocab.Pair[uint32]]vocab.MergeInfo[uint32]{}
	next := uint32(256)

	merge := func(left, right string) string {
		a := spanEntries[left]
		b := spanEntries[right]
		tok := next
		next++
		combined := left + right
		spanEntries[combined] = tok
		pairEntries[vocab.Pair[uint32]{A: a, B: b}] = vocab.MergeInfo[uint32]{Token: tok, Rank: int(tok)}
		return combined
	}

	lo := merge("l", "o")
	wo := merge("w", "o")
	worl := merge(wo, "r")
	merge(worl, "d") // "word"

	he := merge("h", "e")
	hel := merge(he, "l")
	hell := merge(hel, "l")
	merge(hell, lo) // "helllo"

	sv, err := vocab.NewSpanVocab(spanEntries)
	if err != nil {
		t.Fatalf("span vocab: %v", err)
	}
	pv, err := vocab.NewPairVocab(pairEntries)
	if err != nil {
		t.Fatalf("pair vocab: %v", err)
	}
	v, err := vocab.NewVocabulary("test", bv, sv, pv, nil, "", vocab.DFANone)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	return v
}

func TestEncoderAgreement(t *testing.T) {
	v := buildAgreementVocab(t)
	bpeVocab := NewBpeVocab(v)

	encs := []struct {
		name string
		enc  SpanEncoder[uint32]
	}{
		{"BufferSweep", NewBufferSweep[uint32]()},
		{"TailSweep", NewTailSweep[uint32]()},
		{"MergeHeap", NewMergeHeap[uint32]()},
		{"PriorityMerge", NewPriorityMerge[uint32]()},
		{"BpeBacktrack", NewBpeBacktrack(bpeVocab)},
	}

	samples := []string{"hello world", "worldwide", "hellworld", "a", "", "xyz123"}

	for _, sample := range samples {
		var want []uint32
		for i, e := range encs {
			got := e.enc.EncodeAppend(v, []byte(sample), nil)
			if i == 0 {
				want = got
				continue
			}
			require.Equalf(t, want, got, "sample %q: %s disagreed with BufferSweep", sample, e.name)
		}
	}
}
