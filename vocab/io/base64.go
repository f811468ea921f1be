// Package io loads and writes the vocabulary file formats the tokenizer
// consumes: the tiktoken base64 format (spec.md §6.1) and, as a supplement,
// the older GPT-2 vocab.json + merges.txt export format the teacher's
// loader targeted.
package io

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bpetok/vocab"
	"github.com/bpetok/wcerr"
)

// LoadBase64File reads a tiktoken-format vocabulary file and assembles a
// full Vocabulary around it, deriving the pair-merge table from the span
// map (see vocab.DerivePairVocab) since this format carries no explicit
// merge list. Special tokens, the pattern and the DFA family come from the
// caller, matching spec.md §6.1's "special tokens are supplied by the
// loader, not the file".
func LoadBase64File[T vocab.TokenType](path, name string, special *vocab.SpecialVocab[T], pattern string, dfa vocab.DFAFamily) (*vocab.Vocabulary[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wcerr.Wrap(wcerr.IOError, err, "opening vocab file %s", path)
	}
	defer f.Close()

	spans, err := ReadBase64Spans[T](f)
	if err != nil {
		return nil, err
	}

	byteAssignment := make(map[byte]T, 256)
	spanEntries := make(map[string]T, len(spans))
	for span, tok := range spans {
		if len(span) == 1 {
			byteAssignment[span[0]] = tok
		}
		spanEntries[span] = tok
	}
	byteVocab, err := vocab.NewByteVocab(byteAssignment)
	if err != nil {
		return nil, err
	}
	spanVocab, err := vocab.NewSpanVocab(spanEntries)
	if err != nil {
		return nil, err
	}
	pairVocab, err := vocab.DerivePairVocab(byteVocab, spanVocab)
	if err != nil {
		return nil, err
	}

	v, err := vocab.NewVocabulary(name, byteVocab, spanVocab, pairVocab, special, pattern, dfa)
	if err != nil {
		return nil, err
	}
	log.Printf("wordchipper: loaded vocabulary %s (%d regular tokens, %d special)", name, spanVocab.Len(), special.Len())
	return v, nil
}

// ReadBase64Spans parses "<base64-span> <decimal-id>" lines into a plain
// span(string)->token map, the shape vocab.NewSpanVocab consumes.
func ReadBase64Spans[T vocab.TokenType](r io.Reader) (map[string]T, error) {
	out := make(map[string]T)
	seenIDs := make(map[T]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			return nil, wcerr.New(wcerr.MalformedVocab, "line %d: expected \"<base64> <id>\", got %q", lineNo, line)
		}

		span, err := base64.StdEncoding.DecodeString(parts[0])
		if err != nil {
			return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "line %d: invalid base64", lineNo)
		}

		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, wcerr.Wrap(wcerr.MalformedVocab, err, "line %d: invalid token id", lineNo)
		}
		tok, err := vocab.ToToken[T](int(id))
		if err != nil {
			return nil, err
		}

		if _, dup := out[string(span)]; dup {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "line %d: duplicate span key", lineNo)
		}
		if seenIDs[tok] {
			return nil, wcerr.New(wcerr.DuplicateVocabEntry, "line %d: duplicate token id %v", lineNo, tok)
		}

		out[string(span)] = tok
		seenIDs[tok] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, wcerr.Wrap(wcerr.IOError, err, "reading vocab file")
	}
	return out, nil
}

// WriteBase64File writes a Vocabulary's regular (non-special) tokens back
// out in tiktoken base64 format, sorted by token id as the reference format
// does.
func WriteBase64File[T vocab.TokenType](path string, v *vocab.Vocabulary[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return wcerr.Wrap(wcerr.IOError, err, "creating vocab file %s", path)
	}
	defer f.Close()

	type entry struct {
		tok  T
		span []byte
	}
	var entries []entry
	v.Spans.Each(func(tok T, span []byte) { entries = append(entries, entry{tok, span}) })
	sort.Slice(entries, func(i, j int) bool { return entries[i].tok < entries[j].tok })

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %d\n", base64.StdEncoding.EncodeToString(e.span), e.tok); err != nil {
			return wcerr.Wrap(wcerr.IOError, err, "writing vocab file")
		}
	}
	return w.Flush()
}
