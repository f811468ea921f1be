package spanning

import (
	"testing"

	"github.com/bpetok/vocab"
	"github.com/bpetok/vocab/pretrained"
)

// TestSpannerOracle checks the spanner oracle property: the DFA backend and
// the regex backend must agree byte-for-byte on the span sequence they
// produce for the same input, for every family that has a DFA backend.
func TestSpannerOracle(t *testing.T) {
	special, err := vocab.NewSpecialVocab(map[string]uint32{"<|endoftext|>": 100257})
	if err != nil {
		t.Fatalf("special vocab: %v", err)
	}

	cases := []struct {
		family  vocab.DFAFamily
		pattern string
	}{
		{vocab.DFACl100k, pretrained.Pattern("cl100k_base")},
		{vocab.DFAO200k, pretrained.Pattern("o200k_base")},
		{vocab.DFAR50kP50, pretrained.Pattern("r50k_base")},
	}

	inputs := []string{
		"hello world",
		"  leading and trailing   ",
		"don't stop\nbelieving",
		"one\ttwo\r\nthree",
		"123 456789 0",
		"<|endoftext|>after",
		"mixed<|endoftext|>tokens here",
		"",
		"!!@@##",
		"Iñtërnâtiônàlizætiøn",
	}

	for _, c := range cases {
		rec := NewSpecialRecognizer[uint32](special)
		re, err := NewRegexSpanner[uint32](c.pattern, rec)
		if err != nil {
			t.Fatalf("family %v: compiling regex spanner: %v", c.family, err)
		}
		dfa, ok := NewDFASpanner[uint32](c.family, rec)
		if !ok {
			t.Fatalf("family %v: no DFA backend registered", c.family)
		}

		for _, in := range inputs {
			wantSpans := re.Split([]byte(in))
			gotSpans := dfa.Split([]byte(in))

			if !sameSpans(wantSpans, gotSpans) {
				t.Errorf("family %v, input %q:\n regex = %v\n dfa   = %v", c.family, in, wantSpans, gotSpans)
			}
		}
	}
}

func sameSpans(a, b []SpanRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Start != b[i].Start || a[i].End != b[i].End {
			return false
		}
		if a[i].Kind == Special && a[i].TokenID != b[i].TokenID {
			return false
		}
	}
	return true
}
