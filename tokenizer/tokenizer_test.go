package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpetok/encoders"
	"github.com/bpetok/vocab"
)

// buildHelloWorldVocab is a minimal cl100k-shaped vocabulary: just enough
// merges to turn "hello world" into two tokens and exercise the special
// token and batch paths, without depending on a real downloaded
// vocabulary file.
func buildHelloWorldVocab(t *testing.T) *vocab.Vocabulary[uint32] {
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
		a, b := spanEntries[left], spanEntries[right]
		tok := next
		next++
		combined := left + right
		spanEntries[combined] = tok
		pairEntries[vocab.Pair[uint32]{A: a, B: b}] = vocab.MergeInfo[uint32]{Token: tok, Rank: int(tok)}
		return combined
	}
	he := merge("h", "e")
	hel := merge(he, "l")
	hell := merge(hel, "l")
	merge(hell, "o") // "hello"

	wo := merge("w", "o")
	worl := merge(wo, "r")
	worl2 := merge(worl, "l")
	merge(worl2, "d") // "world"

	merge(" ", "world") // the regex's leading-space-joined word alternative

	sv, err := vocab.NewSpanVocab(spanEntries)
	if err != nil {
		t.Fatalf("span vocab: %v", err)
	}
	pv, err := vocab.NewPairVocab(pairEntries)
	if err != nil {
		t.Fatalf("pair vocab: %v", err)
	}
	special, err := vocab.NewSpecialVocab(map[string]uint32{"<|endoftext|>": 100257})
	if err != nil {
		t.Fatalf("special vocab: %v", err)
	}

	v, err := vocab.NewVocabulary(
		"test-cl100k-shaped",
		bv, sv, pv, special,
		`'(?i:[sdmt]|ll|ve|re)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s`,
		vocab.DFANone,
	)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	return v
}

func newTestTokenizer(t *testing.T, sel encoders.Selector) *Tokenizer[uint32] {
	t.Helper()
	v := buildHelloWorldVocab(t)
	tok, err := New(v, Config{SpanEncoderSelector: sel})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tok
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, sel := range []encoders.Selector{
		encoders.Reference, encoders.TailSweepSelector, encoders.ConcurrentDefault,
		encoders.SingleThreadDefault, encoders.BpeBacktrackSelector,
	} {
		tok := newTestTokenizer(t, sel)

		ids := tok.Encode([]byte("hello world"))
		got, err := tok.DecodeToString(ids)
		require.NoErrorf(t, err, "selector %v: DecodeToString", sel)
		require.Equalf(t, "hello world", got, "selector %v: roundtrip mismatch", sel)
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	tok := newTestTokenizer(t, encoders.SingleThreadDefault)
	if got := tok.Encode([]byte("")); len(got) != 0 {
		t.Errorf("Encode(\"\") = %v, want empty", got)
	}
	if got := tok.Decode(nil); len(got) != 0 {
		t.Errorf("Decode(nil) = %v, want empty", got)
	}
}

func TestEncodeSpecialTokenLiteral(t *testing.T) {
	tok := newTestTokenizer(t, encoders.SingleThreadDefault)
	got := tok.Encode([]byte("<|endoftext|>"))
	if len(got) != 1 || got[0] != 100257 {
		t.Errorf("Encode(special) = %v, want [100257]", got)
	}
}

func TestEncodeBatchEquivalence(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		v := buildHelloWorldVocab(t)
		tok, err := New(v, Config{SpanEncoderSelector: encoders.SingleThreadDefault, Parallel: parallel})
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		texts := [][]byte{[]byte("hello world"), []byte("hello"), []byte("world")}
		batch := tok.EncodeBatch(texts)
		for i, text := range texts {
			want := tok.Encode(text)
			require.Equalf(t, want, batch[i], "parallel=%v: EncodeBatch[%d]", parallel, i)
		}
	}
}
