// Package tokenizer composes a vocabulary, a pre-tokenization spanner, a span
// encoder and a decoder behind the façade spec.md §4.4 names: encode, decode,
// decode_to_string, encode_batch, decode_batch.
package tokenizer

import (
	"context"

	"github.com/bpetok/batch"
	"github.com/bpetok/decode"
	"github.com/bpetok/encoders"
	"github.com/bpetok/pool"
	"github.com/bpetok/spanning"
	"github.com/bpetok/vocab"
	"github.com/bpetok/wcerr"
)

// Config selects the span-encoder algorithm and the pre-tokenization
// backend, matching spec.md §4.4 exactly.
type Config struct {
	// SpanEncoderSelector names the span-encoder algorithm to use.
	SpanEncoderSelector encoders.Selector
	// Parallel, when set, makes encode_batch/decode_batch distribute work
	// over the batch package's worker pool instead of running sequentially.
	Parallel bool
	// AcceleratedLexer enables the DFA pre-tokenization backend when the
	// vocabulary's family has one. False forces the regex backend even when
	// a DFA is available (spec.md §4.4).
	AcceleratedLexer bool
}

// Tokenizer is the façade spec.md §4.4 describes: one vocabulary, one
// encoder algorithm, one decoder, safe for concurrent use by any number of
// goroutines (per-goroutine scratch state is checked out from pooled
// spanners/encoders on every call, never held across calls).
type Tokenizer[T vocab.TokenType] struct {
	vocab   *vocab.Vocabulary[T]
	cfg     Config
	special *spanning.SpecialRecognizer[T]
	decoder *decode.Decoder[T]

	spanners *pool.SpannerPool
	encs     *pool.EncoderPool[T]
}

// New builds a Tokenizer for one vocabulary and configuration.
func New[T vocab.TokenType](v *vocab.Vocabulary[T], cfg Config) (*Tokenizer[T], error) {
	var special *spanning.SpecialRecognizer[T]
	if v.Special != nil {
		special = spanning.NewSpecialRecognizer(v.Special)
	}

	if _, err := spanning.NewRegexSpanner[T](v.Pattern, special); err != nil {
		return nil, wcerr.Wrap(wcerr.PatternCompile, err, "compiling pre-tokenization pattern")
	}

	newSpanner := func() spanning.Spanner {
		if cfg.AcceleratedLexer {
			if s, ok := spanning.NewDFASpanner(v.DFAFamily, special); ok {
				return s
			}
		}
		re, err := spanning.NewRegexSpanner[T](v.Pattern, special)
		if err != nil {
			// New already compiled this pattern once and returned any
			// failure; a Spanner factory has no error return, so a bad
			// pattern here is a programmer error, not a runtime condition.
			panic(wcerr.Wrap(wcerr.PatternCompile, err, "recompiling pre-tokenization pattern"))
		}
		return re
	}

	var bpeVocab *encoders.BpeVocab[T]
	if cfg.SpanEncoderSelector == encoders.BpeBacktrackSelector {
		bpeVocab = encoders.NewBpeVocab(v)
	}
	newEncoder := func() encoders.SpanEncoder[T] {
		return encoders.New(cfg.SpanEncoderSelector, bpeVocab)
	}

	return &Tokenizer[T]{
		vocab:    v,
		cfg:      cfg,
		special:  special,
		decoder:  decode.New(v),
		spanners: pool.NewSpannerPool(newSpanner),
		encs:     pool.NewEncoderPool(newEncoder),
	}, nil
}

// Encode tokenizes text, appending tokens strictly left-to-right with no
// reordering of special tokens relative to surrounding text (spec.md §5).
func (t *Tokenizer[T]) Encode(text []byte) []T {
	spanner := t.spanners.Get()
	defer t.spanners.Put(spanner)
	enc := t.encs.Get()
	defer t.encs.Put(enc)

	spans := spanner.Split(text)
	tokens := make([]T, 0, len(text)/2)
	for _, sp := range spans {
		switch sp.Kind {
		case spanning.Special:
			tok, err := vocab.ToToken[T](int(sp.TokenID))
			if err != nil {
				panic(err)
			}
			tokens = append(tokens, tok)
		default:
			tokens = enc.EncodeAppend(t.vocab, text[sp.Start:sp.End], tokens)
		}
	}
	return tokens
}

// Decode expands tokens back to bytes.
func (t *Tokenizer[T]) Decode(tokens []T) []byte { return t.decoder.Decode(tokens) }

// DecodeToString expands tokens back to a UTF-8 string, failing with
// wcerr.InvalidUTF8 if the result isn't valid UTF-8.
func (t *Tokenizer[T]) DecodeToString(tokens []T) (string, error) {
	return t.decoder.DecodeToString(tokens)
}

// EncodeBatch encodes each text independently, preserving input order.
// When Config.Parallel is set, texts are distributed across the batch
// package's worker pool; otherwise each is encoded in sequence on the
// caller's goroutine.
func (t *Tokenizer[T]) EncodeBatch(texts [][]byte) [][]T {
	if !t.cfg.Parallel || len(texts) < 2 {
		out := make([][]T, len(texts))
		for i, text := range texts {
			out[i] = t.Encode(text)
		}
		return out
	}

	out, err := batch.Run(context.Background(), texts, func(_ context.Context, text []byte) ([]T, error) {
		return t.Encode(text), nil
	})
	if err != nil {
		// The worker function above always returns a nil error, so this
		// branch is unreachable.
		panic(err)
	}
	return out
}

// DecodeBatch decodes each token list independently, preserving input order.
func (t *Tokenizer[T]) DecodeBatch(tokenLists [][]T) [][]byte {
	if !t.cfg.Parallel || len(tokenLists) < 2 {
		return t.decoder.DecodeBatch(tokenLists)
	}

	out, err := batch.Run(context.Background(), tokenLists, func(_ context.Context, tokens []T) ([]byte, error) {
		return t.decoder.Decode(tokens), nil
	})
	if err != nil {
		panic(err)
	}
	return out
}

// Vocabulary returns the tokenizer's underlying vocabulary handle.
func (t *Tokenizer[T]) Vocabulary() *vocab.Vocabulary[T] { return t.vocab }

// Config returns the tokenizer's configuration.
func (t *Tokenizer[T]) Config() Config { return t.cfg }
