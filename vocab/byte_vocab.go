package vocab

import "github.com/bpetok/wcerr"

// ByteVocab is the bijection between the 256 byte values and the 256 base
// token ids. It is usually the identity map (byte i -> token i) but some
// historical tiktoken exports permute byte order, so both directions are
// stored explicitly rather than assumed.
type ByteVocab[T TokenType] struct {
	byteToToken [256]T
	tokenToByte map[T]byte
}

// NewByteVocab builds a ByteVocab from an explicit byte->token assignment.
// All 256 bytes must appear exactly once among the keys.
func NewByteVocab[T TokenType](assignment map[byte]T) (*ByteVocab[T], error) {
	if len(assignment) != 256 {
		return nil, wcerr.New(wcerr.MalformedVocab, "byte map has %d entries, want 256", len(assignment))
	}

	bv := &ByteVocab[T]{tokenToByte: make(map[T]byte, 256)}
	for b := 0; b < 256; b++ {
		tok, ok := assignment[byte(b)]
		if !ok {
			return nil, wcerr.New(wcerr.MalformedVocab, "byte map missing entry for byte %d", b)
		}
		if _, dup := bv.tokenToByte[tok]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "byte map token %v assigned to more than one byte", tok)
		}
		bv.byteToToken[b] = tok
		bv.tokenToByte[tok] = byte(b)
	}
	return bv, nil
}

// IdentityByteVocab returns the trivial byte i -> token i mapping, the
// common case for every published OpenAI vocabulary.
func IdentityByteVocab[T TokenType]() *ByteVocab[T] {
	bv := &ByteVocab[T]{tokenToByte: make(map[T]byte, 256)}
	for b := 0; b < 256; b++ {
		bv.byteToToken[b] = T(b)
		bv.tokenToByte[T(b)] = byte(b)
	}
	return bv
}

// Token returns the base token for a raw byte.
func (bv *ByteVocab[T]) Token(b byte) T { return bv.byteToToken[b] }

// Byte returns the raw byte a base token represents, and whether tok is in
// fact a base (single-byte) token.
func (bv *ByteVocab[T]) Byte(tok T) (byte, bool) {
	b, ok := bv.tokenToByte[tok]
	return b, ok
}
