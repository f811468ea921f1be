// Command tokendemo loads a GPT-2-format vocabulary fetched by cmd/fetchvocab
// and round-trips a demo string through the tokenizer façade, the same
// load-then-verify shape as the teacher's test_vocab_load demo.
package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/bpetok/encoders"
	vocabio "github.com/bpetok/vocab/io"
	"github.com/bpetok/vocab/pretrained"

	"github.com/bpetok/tokenizer"
)

func main() {
	entry, err := pretrained.Resolve("r50k_base")
	if err != nil {
		log.Fatalf("resolving model: %v", err)
	}
	special, err := pretrained.SpecialVocab[uint32](entry)
	if err != nil {
		log.Fatalf("building special-token table: %v", err)
	}

	vocabPath := filepath.Join("testdata", "gpt2", "vocab.json")
	mergesPath := filepath.Join("testdata", "gpt2", "merges.txt")
	v, err := vocabio.LoadGPT2File[uint32](vocabPath, mergesPath, entry.Name, special, entry.Pattern, entry.DFAFamily)
	if err != nil {
		log.Fatalf("failed to load vocabulary: %v", err)
	}

	tok, err := tokenizer.New(v, tokenizer.Config{SpanEncoderSelector: encoders.SingleThreadDefault})
	if err != nil {
		log.Fatalf("failed to build tokenizer: %v", err)
	}

	text := "the quick brown fox jumps over the lazy dog"
	ids := tok.Encode([]byte(text))
	fmt.Printf("encoded %q into %d tokens: %v\n", text, len(ids), ids)

	back, err := tok.DecodeToString(ids)
	if err != nil {
		log.Fatalf("decode failed: %v", err)
	}
	if back != text {
		log.Fatalf("roundtrip mismatch: got %q, want %q", back, text)
	}
	fmt.Println("roundtrip ok")
}
