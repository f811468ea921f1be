package spanning

import (
	"github.com/bpetok/vocab"
	"github.com/dlclark/regexp2"
)

// RegexSpanner implements the regex pre-tokenization backend (spec.md
// §4.1.1): it first scans for special-token literal matches, then applies
// the model's pre-tokenization regex between them to produce Word spans.
// Any byte the pattern doesn't match becomes a single-byte Gap span.
//
// regexp2 (github.com/dlclark/regexp2) is the Go ecosystem's .NET-compatible
// regex engine, the only widely used Go regex package that supports the
// negative lookahead (`\s+(?!\S)`) these patterns depend on; Go's own
// regexp package (RE2) does not support lookaround at all.
type RegexSpanner[T vocab.TokenType] struct {
	re      *regexp2.Regexp
	special *SpecialRecognizer[T]
}

// NewRegexSpanner compiles pattern and binds an optional special-token
// recognizer. special may be nil for a spanner with no special tokens.
func NewRegexSpanner[T vocab.TokenType](pattern string, special *SpecialRecognizer[T]) (*RegexSpanner[T], error) {
	re, err := regexp2.Compile(pattern, regexp2.Unicode)
	if err != nil {
		return nil, err
	}
	return &RegexSpanner[T]{re: re, special: special}, nil
}

func (s *RegexSpanner[T]) Split(text []byte) []SpanRef {
	var out []SpanRef

	pos := 0
	for pos < len(text) {
		specStart, specEnd := len(text), len(text)
		var specTok T
		hasSpecial := false
		if s.special != nil {
			if st, en, tok, ok := s.special.Next(text, pos); ok {
				specStart, specEnd, specTok, hasSpecial = st, en, tok, true
			}
		}

		out = appendWordSpans(out, s.re, text[pos:specStart], pos)

		if !hasSpecial {
			break
		}
		out = append(out, SpanRef{Kind: Special, Start: specStart, End: specEnd, TokenID: uint64(specTok)})
		pos = specEnd
	}

	return out
}

// appendWordSpans runs the word pattern over a sub-slice of text and
// appends the resulting spans, offset by `base` into the original text.
// Gaps between/around matches become single-byte Gap spans, one per byte,
// since regexp2's lookahead-driven patterns are expected to cover all input
// and any leftover bytes are genuinely unrecognized.
func appendWordSpans(out []SpanRef, re *regexp2.Regexp, seg []byte, base int) []SpanRef {
	if len(seg) == 0 {
		return out
	}

	s := string(seg)
	byteOffsets := runeToByteOffsets(s)

	cursor := 0 // byte offset within seg already covered
	m, _ := re.FindStringMatch(s)
	for m != nil {
		start := byteOffsets[m.Index]
		var end int
		if m.Index+m.Length < len(byteOffsets) {
			end = byteOffsets[m.Index+m.Length]
		} else {
			end = len(seg)
		}

		if start > cursor {
			for b := cursor; b < start; b++ {
				out = append(out, SpanRef{Kind: Gap, Start: base + b, End: base + b + 1})
			}
		}
		if end > start {
			out = append(out, SpanRef{Kind: Word, Start: base + start, End: base + end})
		}
		cursor = end

		m, _ = re.FindNextMatch(m)
	}

	if cursor < len(seg) {
		for b := cursor; b < len(seg); b++ {
			out = append(out, SpanRef{Kind: Gap, Start: base + b, End: base + b + 1})
		}
	}

	return out
}

// runeToByteOffsets maps each rune index regexp2 reports (it matches over
// []rune(s), where every invalid UTF-8 byte becomes one U+FFFD rune) to the
// corresponding byte offset in s, plus one trailing entry for the
// end-of-string offset so a match ending at the last rune resolves cleanly.
func runeToByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return offsets
}
