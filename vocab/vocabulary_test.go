package vocab

import "testing"

func smallVocab(t *testing.T) *Vocabulary[uint32] {
	t.Helper()

	byteAssignment := make(map[byte]uint32, 256)
	spanEntries := make(map[string]uint32, 256)
	for b := 0; b < 256; b++ {
		byteAssignment[byte(b)] = uint32(b)
		spanEntries[string([]byte{byte(b)})] = uint32(b)
	}
	bv, err := NewByteVocab(byteAssignment)
	if err != nil {
		t.Fatalf("byte vocab: %v", err)
	}

	// "ab" -> 256, "abc" -> 257
	spanEntries["ab"] = 256
	spanEntries["abc"] = 257
	pairEntries := map[Pair[uint32]]MergeInfo[uint32]{
		{A: byteAssignment['a'], B: byteAssignment['b']}: {Token: 256, Rank: 256},
		{A: 256, B: byteAssignment['c']}:                 {Token: 257, Rank: 257},
	}

	sv, err := NewSpanVocab(spanEntries)
	if err != nil {
		t.Fatalf("span vocab: %v", err)
	}
	pv, err := NewPairVocab(pairEntries)
	if err != nil {
		t.Fatalf("pair vocab: %v", err)
	}
	special, err := NewSpecialVocab(map[string]uint32{"<|end|>": 1000})
	if err != nil {
		t.Fatalf("special vocab: %v", err)
	}

	v, err := NewVocabulary("test", bv, sv, pv, special, `\w+`, DFANone)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	return v
}

func TestVocabularyValidateRejectsBadMerge(t *testing.T) {
	byteAssignment := make(map[byte]uint32, 256)
	spanEntries := make(map[string]uint32, 256)
	for b := 0; b < 256; b++ {
		byteAssignment[byte(b)] = uint32(b)
		spanEntries[string([]byte{byte(b)})] = uint32(b)
	}
	bv, _ := NewByteVocab(byteAssignment)
	spanEntries["xy"] = 300
	sv, _ := NewSpanVocab(spanEntries)

	// Merge claims "xy" comes from 'x'+'z', which doesn't concatenate to "xy".
	pairEntries := map[Pair[uint32]]MergeInfo[uint32]{
		{A: byteAssignment['x'], B: byteAssignment['z']}: {Token: 300, Rank: 300},
	}
	pv, err := NewPairVocab(pairEntries)
	if err != nil {
		t.Fatalf("pair vocab: %v", err)
	}

	if _, err := NewVocabulary("bad", bv, sv, pv, nil, `.`, DFANone); err == nil {
		t.Error("NewVocabulary accepted a merge that doesn't concatenate correctly")
	}
}

func TestVocabularyValidateRejectsSpecialCollision(t *testing.T) {
	byteAssignment := make(map[byte]uint32, 256)
	spanEntries := make(map[string]uint32, 256)
	for b := 0; b < 256; b++ {
		byteAssignment[byte(b)] = uint32(b)
		spanEntries[string([]byte{byte(b)})] = uint32(b)
	}
	bv, _ := NewByteVocab(byteAssignment)
	sv, _ := NewSpanVocab(spanEntries)
	pv, _ := NewPairVocab[uint32](nil)

	special, _ := NewSpecialVocab(map[string]uint32{"<|clash|>": uint32('a')})
	if _, err := NewVocabulary("bad", bv, sv, pv, special, `.`, DFANone); err == nil {
		t.Error("NewVocabulary accepted a special token colliding with a regular token id")
	}
}

func TestByteVocabRoundTrip(t *testing.T) {
	v := smallVocab(t)
	for b := 0; b < 256; b++ {
		tok := v.Bytes.Token(byte(b))
		got, ok := v.Bytes.Byte(tok)
		if !ok || got != byte(b) {
			t.Errorf("byte %d round trip failed: tok=%v got=%v ok=%v", b, tok, got, ok)
		}
	}
}

func TestSpanVocabLookupAndBytes(t *testing.T) {
	v := smallVocab(t)
	tok, ok := v.Spans.Lookup([]byte("abc"))
	if !ok || tok != 257 {
		t.Fatalf("Lookup(abc) = %v, %v, want 257, true", tok, ok)
	}
	b, ok := v.Spans.Bytes(257)
	if !ok || string(b) != "abc" {
		t.Fatalf("Bytes(257) = %q, %v, want abc, true", b, ok)
	}
}

func TestPairVocabLookupAndSplit(t *testing.T) {
	v := smallVocab(t)
	info, ok := v.Pairs.Lookup(v.Bytes.Token('a'), v.Bytes.Token('b'))
	if !ok || info.Token != 256 {
		t.Fatalf("Lookup(a,b) = %v, %v, want token 256", info, ok)
	}

	pair, ok := v.Pairs.Split(257)
	if !ok || pair.A != 256 || pair.B != v.Bytes.Token('c') {
		t.Fatalf("Split(257) = %v, %v", pair, ok)
	}

	if _, ok := v.Pairs.Split(v.Bytes.Token('z')); ok {
		t.Error("Split reported a merge source for a base byte token")
	}
}

func TestSpecialVocabNamesLongestFirst(t *testing.T) {
	sv, err := NewSpecialVocab(map[string]uint32{
		"<|a|>":     1,
		"<|aaaaa|>": 2,
		"<|aa|>":    3,
	})
	if err != nil {
		t.Fatalf("special vocab: %v", err)
	}
	names := sv.Names()
	for i := 1; i < len(names); i++ {
		if len(names[i-1]) < len(names[i]) {
			t.Errorf("Names() not longest-first: %v", names)
		}
	}
}

func TestDerivePairVocab(t *testing.T) {
	byteAssignment := make(map[byte]uint32, 256)
	spanEntries := make(map[string]uint32, 256)
	for b := 0; b < 256; b++ {
		byteAssignment[byte(b)] = uint32(b)
		spanEntries[string([]byte{byte(b)})] = uint32(b)
	}
	spanEntries["he"] = 256
	spanEntries["hel"] = 257
	spanEntries["hell"] = 258
	spanEntries["hello"] = 259

	bv, err := NewByteVocab(byteAssignment)
	if err != nil {
		t.Fatalf("byte vocab: %v", err)
	}
	sv, err := NewSpanVocab(spanEntries)
	if err != nil {
		t.Fatalf("span vocab: %v", err)
	}

	pv, err := DerivePairVocab(bv, sv)
	if err != nil {
		t.Fatalf("DerivePairVocab: %v", err)
	}

	info, ok := pv.Lookup(bv.Token('h'), bv.Token('e'))
	if !ok || info.Token != 256 {
		t.Errorf("derived pair (h,e) = %v, %v, want token 256", info, ok)
	}
	info, ok = pv.Lookup(256, bv.Token('l'))
	if !ok || info.Token != 257 {
		t.Errorf("derived pair (he,l) = %v, %v, want token 257", info, ok)
	}
}

func TestToToken(t *testing.T) {
	if _, err := ToToken[uint16](100000); err == nil {
		t.Error("ToToken[uint16](100000) should overflow")
	}
	if _, err := ToToken[uint32](-1); err == nil {
		t.Error("ToToken[uint32](-1) should reject a negative id")
	}
	tok, err := ToToken[uint32](42)
	if err != nil || tok != 42 {
		t.Errorf("ToToken[uint32](42) = %v, %v, want 42, nil", tok, err)
	}
}
