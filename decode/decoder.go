// Package decode implements the span decoder (spec.md §4.3): a pure
// lookup from token id to byte sequence, with no merge logic of its own.
package decode

import (
	"unicode/utf8"

	"github.com/bpetok/vocab"
	"github.com/bpetok/wcerr"
)

// Decoder decodes token sequences against one immutable Vocabulary.
type Decoder[T vocab.TokenType] struct {
	vocab *vocab.Vocabulary[T]
}

// New wraps a Vocabulary for decoding.
func New[T vocab.TokenType](v *vocab.Vocabulary[T]) *Decoder[T] {
	return &Decoder[T]{vocab: v}
}

// Decode appends every token's byte sequence to out, in order. A token id
// that exists in neither the special table nor the regular span map panics,
// matching the teacher's decoder: an out-of-range token id indicates caller
// misuse (token ids from a foreign vocabulary, or a corrupted encode path),
// not a recoverable input-validation failure.
func (d *Decoder[T]) Decode(tokens []T) []byte {
	if len(tokens) == 0 {
		return nil
	}

	total := 0
	for _, tok := range tokens {
		total += len(d.bytesOf(tok))
	}

	out := make([]byte, 0, total)
	for _, tok := range tokens {
		out = append(out, d.bytesOf(tok)...)
	}
	return out
}

// DecodeToString decodes tokens and validates the result as UTF-8, failing
// with wcerr.InvalidUTF8 if it isn't (spec.md §4.4's decode_to_string).
func (d *Decoder[T]) DecodeToString(tokens []T) (string, error) {
	b := d.Decode(tokens)
	if !utf8.Valid(b) {
		return "", wcerr.New(wcerr.InvalidUTF8, "decoded byte sequence is not valid UTF-8")
	}
	return string(b), nil
}

// DecodeBatch decodes each token list independently (spec.md §4.4's
// decode_batch), preserving input order.
func (d *Decoder[T]) DecodeBatch(tokenLists [][]T) [][]byte {
	out := make([][]byte, len(tokenLists))
	for i, tokens := range tokenLists {
		out[i] = d.Decode(tokens)
	}
	return out
}

func (d *Decoder[T]) bytesOf(tok T) []byte {
	if d.vocab.Special != nil {
		if name, ok := d.vocab.Special.Name(tok); ok {
			return []byte(name)
		}
	}
	if b, ok := d.vocab.Bytes.Byte(tok); ok {
		return []byte{b}
	}
	if b, ok := d.vocab.Spans.Bytes(tok); ok {
		return b
	}
	panic(wcerr.New(wcerr.TokenOverflow, "token id %v out of range while decoding", tok))
}
