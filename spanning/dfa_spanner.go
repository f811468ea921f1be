package spanning

import (
	"unicode"
	"unicode/utf8"

	"github.com/bpetok/vocab"
)

// role mirrors spec.md §4.1.2's TokenRole table: how a raw DFA token
// interacts with preceding buffered whitespace.
type role int

const (
	roleWhitespace role = iota
	rolePunctuation
	roleWord
	roleStandalone
	roleGap
)

// familyConfig parameterizes the single DFA scan loop per lexer family
// (cl100k, o200k, r50k/p50k), rather than duplicating the scan for each.
type familyConfig struct {
	// digitRunCap bounds a digit run's length (cl100k/o200k cap at 3, the
	// \p{N}{1,3} alternative); 0 means uncapped (r50k's \p{N}+).
	digitRunCap int
	// digitAbsorbsSpace: whether a digit run behaves like Punctuation for
	// whitespace absorption (r50k's " ?[\p{N}]+") rather than Standalone
	// (cl100k/o200k's bare "\p{N}{1,3}", no leading-space alternative).
	digitAbsorbsSpace bool
	// contractionIsSeparateToken: r50k matches contractions as their own
	// top-level alternative with no leading-space absorption (Standalone).
	// cl100k/o200k fold them into the letter-run Word token instead and
	// need the contractionSplit post-processor to recover regex first-match
	// semantics from the DFA's longest match.
	contractionIsSeparateToken bool
	// letterAbsorbsLeadingMark: cl100k/o200k's letter alternative optionally
	// absorbs one leading non-letter/non-digit byte (`[^\r\n\p{L}\p{N}]?`)
	// before the letter run, which is how an apostrophe ends up prefixed to
	// a letter run in the first place. r50k's letter alternative has no
	// such prefix (only an ASCII space may precede it, handled uniformly by
	// the Word role's whitespace-absorption rule).
	letterAbsorbsLeadingMark bool
}

var familyConfigs = map[vocab.DFAFamily]familyConfig{
	vocab.DFAR50kP50: {
		digitRunCap:                0,
		digitAbsorbsSpace:          true,
		contractionIsSeparateToken: true,
		letterAbsorbsLeadingMark:   false,
	},
	vocab.DFACl100k: {
		digitRunCap:                3,
		digitAbsorbsSpace:          false,
		contractionIsSeparateToken: false,
		letterAbsorbsLeadingMark:   true,
	},
	vocab.DFAO200k: {
		digitRunCap:                3,
		digitAbsorbsSpace:          false,
		contractionIsSeparateToken: false,
		letterAbsorbsLeadingMark:   true,
	},
}

// rawToken is one DFA-recognized run before whitespace post-processing.
type rawToken struct {
	role       role
	start, end int
}

// DFASpanner implements the deterministic pre-tokenization backend
// (spec.md §4.1.2): a single left-to-right classification pass produces
// raw, role-tagged runs, then a post-processing pass corrects whitespace
// attachment to match the regex backend's `\s+(?!\S)`-driven behavior
// exactly (spec.md testable property 5, the spanner oracle).
type DFASpanner[T vocab.TokenType] struct {
	cfg     familyConfig
	special *SpecialRecognizer[T]
}

// NewDFASpanner builds a spanner for one of the three lexer families. It
// returns ok=false if no DFA backend exists for the family (spec.md §4.4's
// accelerated_lexer flag then forces the regex backend instead).
func NewDFASpanner[T vocab.TokenType](family vocab.DFAFamily, special *SpecialRecognizer[T]) (*DFASpanner[T], bool) {
	cfg, ok := familyConfigs[family]
	if !ok {
		return nil, false
	}
	return &DFASpanner[T]{cfg: cfg, special: special}, true
}

func (s *DFASpanner[T]) Split(text []byte) []SpanRef {
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

		out = append(out, s.splitWord(text[pos:specStart], pos)...)

		if !hasSpecial {
			break
		}
		out = append(out, SpanRef{Kind: Special, Start: specStart, End: specEnd, TokenID: uint64(specTok)})
		pos = specEnd
	}

	return out
}

// splitWord classifies a special-free segment into raw tokens, then
// resolves whitespace attachment and contraction splitting.
func (s *DFASpanner[T]) splitWord(seg []byte, base int) []SpanRef {
	raws := s.scan(seg)
	return s.resolve(raws, seg, base)
}

// scan performs the single left-to-right classification pass.
func (s *DFASpanner[T]) scan(seg []byte) []rawToken {
	var raws []rawToken
	i := 0
	for i < len(seg) {
		r, size := utf8.DecodeRune(seg[i:])
		switch {
		case r == ' ' || r == '\t':
			j := i
			for j < len(seg) {
				r2, sz2 := utf8.DecodeRune(seg[j:])
				if r2 != ' ' && r2 != '\t' {
					break
				}
				j += sz2
			}
			raws = append(raws, rawToken{role: roleWhitespace, start: i, end: j})
			i = j

		case r == '\r' || r == '\n':
			j := i
			for j < len(seg) {
				r2, sz2 := utf8.DecodeRune(seg[j:])
				if r2 != '\r' && r2 != '\n' {
					break
				}
				j += sz2
			}
			raws = append(raws, rawToken{role: roleStandalone, start: i, end: j})
			i = j

		case s.cfg.contractionIsSeparateToken && r == '\'' && matchesContractionExact(seg[i:]):
			n := contractionTokenLen(seg[i:])
			raws = append(raws, rawToken{role: roleStandalone, start: i, end: i + n})
			i += n

		case unicode.IsLetter(r) || (s.cfg.letterAbsorbsLeadingMark && r == '\'' && i+1 < len(seg) && startsLetterRun(seg[i+1:])):
			start := i
			j := i
			if s.cfg.letterAbsorbsLeadingMark && !unicode.IsLetter(r) {
				_, sz := utf8.DecodeRune(seg[j:])
				j += sz
			}
			for j < len(seg) {
				r2, sz2 := utf8.DecodeRune(seg[j:])
				if !unicode.IsLetter(r2) {
					break
				}
				j += sz2
			}
			raws = append(raws, rawToken{role: roleWord, start: start, end: j})
			i = j

		case unicode.IsDigit(r):
			start := i
			j := i
			count := 0
			for j < len(seg) {
				r2, sz2 := utf8.DecodeRune(seg[j:])
				if !unicode.IsDigit(r2) {
					break
				}
				if s.cfg.digitRunCap > 0 && count >= s.cfg.digitRunCap {
					break
				}
				j += sz2
				count++
			}
			rl := roleStandalone
			if s.cfg.digitAbsorbsSpace {
				rl = rolePunctuation
			}
			raws = append(raws, rawToken{role: rl, start: start, end: j})
			i = j

		default:
			start := i
			j := i
			for j < len(seg) {
				r2, sz2 := utf8.DecodeRune(seg[j:])
				if r2 == ' ' || r2 == '\t' || r2 == '\r' || r2 == '\n' || unicode.IsLetter(r2) || unicode.IsDigit(r2) {
					break
				}
				j += sz2
			}
			if j == start {
				j += size // never get stuck on an undecodable byte
			}
			raws = append(raws, rawToken{role: rolePunctuation, start: start, end: j})
			i = j
		}
	}
	return raws
}

// resolve applies the whitespace-absorption table and contraction
// splitting, turning raw role-tagged runs into final SpanRef values.
func (s *DFASpanner[T]) resolve(raws []rawToken, seg []byte, base int) []SpanRef {
	var out []SpanRef
	var pendingWS *rawToken

	flushWS := func() {
		if pendingWS != nil && pendingWS.end > pendingWS.start {
			out = append(out, SpanRef{Kind: Word, Start: base + pendingWS.start, End: base + pendingWS.end})
		}
		pendingWS = nil
	}

	for idx := 0; idx < len(raws); idx++ {
		rt := raws[idx]

		if rt.role == roleWhitespace {
			flushWS()
			cp := rt
			pendingWS = &cp
			continue
		}

		absorbed := false
		if pendingWS != nil {
			switch rt.role {
			case rolePunctuation:
				if pendingWS.end > pendingWS.start && seg[pendingWS.end-1] == ' ' {
					if pendingWS.end-1 > pendingWS.start {
						out = append(out, SpanRef{Kind: Word, Start: base + pendingWS.start, End: base + pendingWS.end - 1})
					}
					rt.start = pendingWS.end - 1
					absorbed = true
				}
			case roleWord:
				if pendingWS.end > pendingWS.start {
					r, _ := utf8.DecodeRune(seg[rt.start:rt.end])
					if unicode.IsLetter(r) || (s.cfg.letterAbsorbsLeadingMark && seg[rt.start] == '\'') {
						if pendingWS.end-1 > pendingWS.start {
							out = append(out, SpanRef{Kind: Word, Start: base + pendingWS.start, End: base + pendingWS.end - 1})
						}
						rt.start = pendingWS.end - 1
						absorbed = true
					}
				}
			}
			if !absorbed {
				flushWS()
			} else {
				pendingWS = nil
			}
		}

		if rt.role == roleWord && s.cfg.letterAbsorbsLeadingMark {
			out = appendWordWithContractionSplit(out, seg, rt, base)
			continue
		}

		out = append(out, SpanRef{Kind: Word, Start: base + rt.start, End: base + rt.end})
	}
	flushWS()

	return out
}

// appendWordWithContractionSplit recovers regex first-match semantics from
// a DFA's longest-match letter run: if the run begins with a recognized
// contraction prefix that is itself a prefix of a longer word (e.g.
// "'There"), split it into the contraction and the remainder ("'T" + "here").
func appendWordWithContractionSplit(out []SpanRef, seg []byte, rt rawToken, base int) []SpanRef {
	runBytes := seg[rt.start:rt.end]
	if n, ok := contractionSplit(runBytes); ok {
		out = append(out, SpanRef{Kind: Word, Start: base + rt.start, End: base + rt.start + n})
		out = append(out, SpanRef{Kind: Word, Start: base + rt.start + n, End: base + rt.end})
		return out
	}
	return append(out, SpanRef{Kind: Word, Start: base + rt.start, End: base + rt.end})
}

// startsLetterRun reports whether bytes begins with at least one letter,
// used to decide whether a leading apostrophe should be absorbed as the
// letter-run's optional leading mark character (cl100k/o200k only).
func startsLetterRun(bytes []byte) bool {
	r, _ := utf8.DecodeRune(bytes)
	return unicode.IsLetter(r)
}

// contractionTokenLen returns the byte length of a standalone contraction
// match ('s, 't, 'd, 'm, 're, 've, 'll, case-insensitive) at the start of
// bytes, for r50k-family families where contractions are their own DFA
// token rather than folded into a letter run. Assumes
// matchesContractionExact already confirmed a match exists.
func contractionTokenLen(bytes []byte) int {
	c1 := lower(bytes[1])
	if c1 == 's' || c1 == 't' || c1 == 'd' || c1 == 'm' {
		return 2
	}
	return 3
}

// matchesContractionExact reports whether bytes starts with exactly one of
// the r50k contraction alternatives ('s|'t|'re|'ve|'m|'ll|'d), case
// sensitive per the r50k pattern (unlike cl100k's case-insensitive group).
func matchesContractionExact(bytes []byte) bool {
	if len(bytes) < 2 || bytes[0] != '\'' {
		return false
	}
	switch bytes[1] {
	case 's', 't', 'm', 'd':
		return true
	case 'r':
		return len(bytes) >= 3 && bytes[2] == 'e'
	case 'v':
		return len(bytes) >= 3 && bytes[2] == 'e'
	case 'l':
		return len(bytes) >= 3 && bytes[2] == 'l'
	}
	return false
}
