package pretrained

import (
	"strings"

	"github.com/bpetok/vocab"
	"github.com/bpetok/wcerr"
)

// Entry is the per-model triple spec.md §6.2 requires: pattern, special
// table, and a DFA backend identifier (DFANone if none is available).
type Entry struct {
	Name      string
	Pattern   string
	Specials  map[string]uint32
	DFAFamily vocab.DFAFamily
}

var dfaFamilies = map[string]vocab.DFAFamily{
	"r50k_base":     vocab.DFAR50kP50,
	"p50k_base":     vocab.DFAR50kP50,
	"p50k_edit":     vocab.DFAR50kP50,
	"cl100k_base":   vocab.DFACl100k,
	"o200k_base":    vocab.DFAO200k,
	"o200k_harmony": vocab.DFAO200k,
}

// Resolve looks up a model name, accepting an "openai::" or "openai/"
// namespace prefix or a bare name. Resolution is case-sensitive.
func Resolve(name string) (Entry, error) {
	bare := name
	switch {
	case strings.HasPrefix(name, "openai::"):
		bare = strings.TrimPrefix(name, "openai::")
	case strings.HasPrefix(name, "openai/"):
		bare = strings.TrimPrefix(name, "openai/")
	}

	pattern := Pattern(bare)
	specials := Specials(bare)
	if pattern == "" || specials == nil {
		return Entry{}, wcerr.New(wcerr.UnknownModel, "unknown model %q", name)
	}

	return Entry{
		Name:      bare,
		Pattern:   pattern,
		Specials:  specials,
		DFAFamily: dfaFamilies[bare],
	}, nil
}

// SpecialVocab builds the model's special-token table in the engine's
// chosen integer width.
func SpecialVocab[T vocab.TokenType](e Entry) (*vocab.SpecialVocab[T], error) {
	entries := make(map[string]T, len(e.Specials))
	for name, id := range e.Specials {
		tok, err := vocab.ToToken[T](int(id))
		if err != nil {
			return nil, err
		}
		entries[name] = tok
	}
	return vocab.NewSpecialVocab(entries)
}

// Names lists every bare model name the registry recognizes.
func Names() []string {
	return []string{"r50k_base", "p50k_base", "p50k_edit", "cl100k_base", "o200k_base", "o200k_harmony"}
}
