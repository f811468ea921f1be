package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bpetok/vocab"
	"github.com/bpetok/wcerr"
)

// LoadGPT2File loads the older HuggingFace-style GPT-2 export: a
// vocab.json mapping token strings to ids, plus a merges.txt listing merge
// rules in training order. This format predates the tiktoken base64 format
// spec.md §6.1 normalizes on, but r50k/p50k-era exports only exist in this
// shape, so it is kept as a supplemental loader rather than dropped.
//
// Unlike the base64 format, merges.txt gives an explicit rank (its line
// index) independent of token id, so no pair-table derivation is needed
// here — the rank and the merge's two operands come straight from the file.
func LoadGPT2File[T vocab.TokenType](vocabPath, mergesPath, name string, special *vocab.SpecialVocab[T], pattern string, dfa vocab.DFAFamily) (*vocab.Vocabulary[T], error) {
	tokenStrs, err := readVocabJSON(vocabPath)
	if err != nil {
		return nil, err
	}

	byteDecoder := buildCursedByteDecoder()

	spanEntries := make(map[string]T, len(tokenStrs))
	byteAssignment := make(map[byte]T, 256)
	for tokenStr, id := range tokenStrs {
		tok, err := vocab.ToToken[T](id)
		if err != nil {
			return nil, err
		}
		b, err := decodeTokenString(tokenStr, byteDecoder)
		if err != nil {
			return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "decoding token %q", tokenStr)
		}
		if len(b) == 0 {
			return nil, wcerr.New(wcerr.MalformedVocab, "token %q decoded to empty bytes", tokenStr)
		}
		if _, dup := spanEntries[string(b)]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "duplicate byte sequence for token id %v", tok)
		}
		spanEntries[string(b)] = tok
		if len(b) == 1 {
			byteAssignment[b[0]] = tok
		}
	}

	byteVocab, err := vocab.NewByteVocab(byteAssignment)
	if err != nil {
		return nil, err
	}
	spanVocab, err := vocab.NewSpanVocab(spanEntries)
	if err != nil {
		return nil, err
	}

	pairEntries, err := readMergesTxt(mergesPath, byteVocab, spanVocab)
	if err != nil {
		return nil, err
	}
	pairVocab, err := vocab.NewPairVocab(pairEntries)
	if err != nil {
		return nil, err
	}

	v, err := vocab.NewVocabulary(name, byteVocab, spanVocab, pairVocab, special, pattern, dfa)
	if err != nil {
		return nil, err
	}
	log.Printf("wordchipper: loaded vocabulary %s (%d regular tokens, %d merges)", name, spanVocab.Len(), len(pairEntries))
	return v, nil
}

func readVocabJSON(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wcerr.Wrap(wcerr.IOError, err, "reading vocab file %s", path)
	}
	var vocab map[string]int
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "unmarshalling vocab.json")
	}
	return vocab, nil
}

// readMergesTxt parses "<left> <right>" lines, each naming the two token
// strings merged at that training step (in the same cursed-byte encoding
// vocab.json uses), and resolves them against already-loaded spans.
func readMergesTxt[T vocab.TokenType](path string, bv *vocab.ByteVocab[T], sv *vocab.SpanVocab[T]) (map[vocab.Pair[T]]vocab.MergeInfo[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wcerr.Wrap(wcerr.IOError, err, "opening merges file %s", path)
	}
	defer f.Close()

	byteDecoder := buildCursedByteDecoder()
	entries := make(map[vocab.Pair[T]]vocab.MergeInfo[T])

	scanner := bufio.NewScanner(f)
	rank := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			return nil, wcerr.New(wcerr.MalformedVocab, "merges.txt line %d: expected two tokens", lineNo)
		}

		leftBytes, err := decodeTokenString(parts[0], byteDecoder)
		if err != nil {
			return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "merges.txt line %d", lineNo)
		}
		rightBytes, err := decodeTokenString(parts[1], byteDecoder)
		if err != nil {
			return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "merges.txt line %d", lineNo)
		}

		leftTok, ok := lookupSpan(leftBytes, bv, sv)
		if !ok {
			return nil, wcerr.New(wcerr.MalformedVocab, "merges.txt line %d: left operand %q not in vocab", lineNo, leftBytes)
		}
		rightTok, ok := lookupSpan(rightBytes, bv, sv)
		if !ok {
			return nil, wcerr.New(wcerr.MalformedVocab, "merges.txt line %d: right operand %q not in vocab", lineNo, rightBytes)
		}
		merged := append(append([]byte{}, leftBytes...), rightBytes...)
		mergedTok, ok := lookupSpan(merged, bv, sv)
		if !ok {
			return nil, wcerr.New(wcerr.MalformedVocab, "merges.txt line %d: merged result %q not in vocab", lineNo, merged)
		}

		pair := vocab.Pair[T]{A: leftTok, B: rightTok}
		if _, dup := entries[pair]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "merges.txt line %d: duplicate pair", lineNo)
		}
		entries[pair] = vocab.MergeInfo[T]{Token: mergedTok, Rank: rank}
		rank++
	}
	if err := scanner.Err(); err != nil {
		return nil, wcerr.Wrap(wcerr.IOError, err, "reading merges file")
	}
	return entries, nil
}

func lookupSpan[T vocab.TokenType](b []byte, bv *vocab.ByteVocab[T], sv *vocab.SpanVocab[T]) (T, bool) {
	if len(b) == 1 {
		return bv.Token(b[0]), true
	}
	return sv.Lookup(b)
}

// decodeTokenString turns a vocab.json key (which may contain the "cursed"
// extended-unicode stand-ins for raw bytes) back into the bytes it
// represents. For each rune: if it's a registered stand-in, emit the
// decoded byte; otherwise emit the rune's own UTF-8 encoding.
func decodeTokenString(s string, byteDecoder map[rune]byte) ([]byte, error) {
	var out []byte

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("invalid utf8 in token string at %q", s)
		}

		if b, ok := byteDecoder[r]; ok {
			out = append(out, b)
		} else {
			var tmp [utf8.UTFMax]byte
			n := utf8.EncodeRune(tmp[:], r)
			out = append(out, tmp[:n]...)
		}

		s = s[size:]
	}

	return out, nil
}

// buildCursedByteDecoder replays GPT-2's byte -> fake-printable-rune mapping
// so vocab.json token strings can be converted back to raw bytes. Bytes
// 33-126, 161-172 and 174-255 round-trip as their own rune; everything else
// (control characters, space, the high-bit gap) gets a stand-in rune
// starting at 256, assigned in ascending byte order.
func buildCursedByteDecoder() map[rune]byte {
	var printable []int
	for b := 33; b <= 126; b++ {
		printable = append(printable, b)
	}
	for b := 161; b <= 172; b++ {
		printable = append(printable, b)
	}
	for b := 174; b <= 255; b++ {
		printable = append(printable, b)
	}

	isPrintable := make([]bool, 256)
	for _, b := range printable {
		isPrintable[b] = true
	}

	bytesOrder := append([]int{}, printable...)
	runesOrder := append([]int{}, printable...)

	next := 256
	for b := 0; b < 256; b++ {
		if !isPrintable[b] {
			bytesOrder = append(bytesOrder, b)
			runesOrder = append(runesOrder, next)
			next++
		}
	}

	byteDecoder := make(map[rune]byte, 256)
	for i := range bytesOrder {
		byteDecoder[rune(runesOrder[i])] = byte(bytesOrder[i])
	}
	return byteDecoder
}
