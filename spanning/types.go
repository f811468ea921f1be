// Package spanning implements pre-tokenization: splitting input text into a
// sequence of SpanRef values covering every byte exactly once, via either a
// backtracking regex or a hand-built DFA per vocabulary family.
package spanning

// Kind discriminates the three SpanRef variants.
type Kind int

const (
	// Word is a normal pre-tokenized slice, to be BPE-encoded.
	Word Kind = iota
	// Special is a literal special-token match, emitted directly.
	Special
	// Gap is bytes unrecognized by the DFA/regex, passed through as a Word.
	Gap
)

// SpanRef names a byte range of the input and how it should be handled.
// Start/End are byte offsets into the original text, [Start, End).
type SpanRef struct {
	Kind       Kind
	Start, End int
	// TokenID is only meaningful when Kind == Special.
	TokenID uint64
}

func (s SpanRef) Len() int { return s.End - s.Start }

// Spanner produces the ordered SpanRef sequence for a text. Implementations:
// RegexSpanner (backtracking regex) and DFASpanner (hand-built automaton per
// family). Both must agree byte-for-byte (spec.md testable property 5).
type Spanner interface {
	Split(text []byte) []SpanRef
}
