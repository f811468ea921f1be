package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpetok/vocab"
)

func testVocab(t *testing.T) *vocab.Vocabulary[uint32] {
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
	spanEntries["hi"] = 300
	sv, err := vocab.NewSpanVocab(spanEntries)
	if err != nil {
		t.Fatalf("span vocab: %v", err)
	}
	pv, err := vocab.NewPairVocab(map[vocab.Pair[uint32]]vocab.MergeInfo[uint32]{
		{A: uint32('h'), B: uint32('i')}: {Token: 300, Rank: 300},
	})
	if err != nil {
		t.Fatalf("pair vocab: %v", err)
	}
	special, err := vocab.NewSpecialVocab(map[string]uint32{"<|endoftext|>": 500})
	if err != nil {
		t.Fatalf("special vocab: %v", err)
	}
	v, err := vocab.NewVocabulary("test", bv, sv, pv, special, "", vocab.DFANone)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	return v
}

func TestDecodeRoundTrip(t *testing.T) {
	v := testVocab(t)
	d := New(v)

	got := d.Decode([]uint32{300, uint32(' '), uint32('t'), uint32('h'), uint32('e'), 500})
	require.Equal(t, "hi the<|endoftext|>", string(got))
}

func TestDecodeToStringInvalidUTF8(t *testing.T) {
	v := testVocab(t)
	d := New(v)

	_, err := d.DecodeToString([]uint32{0xFF})
	if err == nil {
		t.Fatal("expected InvalidUTF8 error, got nil")
	}
}

func TestDecodeOutOfRangePanics(t *testing.T) {
	v := testVocab(t)
	d := New(v)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on out-of-range token id")
		}
	}()
	d.Decode([]uint32{999999})
}
