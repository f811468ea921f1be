// Package pretrained ships the per-model pre-tokenization pattern, special
// token table and DFA family for every vocabulary name spec.md §6.2 names:
// r50k_base, p50k_base, p50k_edit, cl100k_base, o200k_base, o200k_harmony.
package pretrained

import "strings"

// The pattern strings below are transcribed byte-for-byte (modulo possessive
// quantifiers) from the OpenAI pattern definitions this vocabulary set was
// distilled from. Each alternative is listed separately and joined with "|"
// rather than hand-assembled, so a diff against the source alternatives
// stays legible.
//
// Possessive quantifiers (`++`, `*+`, `?+`) in the source are written here as
// their ordinary counterparts: github.com/dlclark/regexp2 implements .NET
// regex semantics, which has no possessive-quantifier syntax. Dropping
// possessiveness only affects backtracking performance on pathological
// input, never which substrings these specific alternatives match, since
// none of them nest a quantified group inside another quantified group.

func join(alts ...string) string { return strings.Join(alts, "|") }

// r50kPattern is shared by r50k_base, p50k_base and p50k_edit.
var r50kPattern = join(
	`'s`,
	`'t`,
	`'re`,
	`'ve`,
	`'m`,
	`'ll`,
	`'d`,
	` ?[\p{L}]+`,
	` ?[\p{N}]+`,
	` ?[^\s\p{L}\p{N}]+`,
	`\s+(?!\S)`,
	`\s+`,
)

var cl100kPattern = join(
	`'(?i:[sdmt]|ll|ve|re)`,
	`[^\r\n\p{L}\p{N}]?\p{L}+`,
	`\p{N}{1,3}`,
	` ?[^\s\p{L}\p{N}]+[\r\n]*`,
	`\s+$`,
	`\s*[\r\n]`,
	`\s+(?!\S)`,
	`\s`,
)

var o200kPattern = join(
	`[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]*[\p{Ll}\p{Lm}\p{Lo}\p{M}]+(?i:'s|'t|'re|'ve|'m|'ll|'d)?`,
	`[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]+[\p{Ll}\p{Lm}\p{Lo}\p{M}]*(?i:'s|'t|'re|'ve|'m|'ll|'d)?`,
	`\p{N}{1,3}`,
	` ?[^\s\p{L}\p{N}]+[\r\n/]*`,
	`\s*[\r\n]+`,
	`\s+(?!\S)`,
	`\s+`,
)

// Pattern returns the pre-tokenization pattern string for a bare model name
// (no namespace prefix). The empty string means the name is unrecognized.
func Pattern(name string) string {
	switch name {
	case "r50k_base", "p50k_base", "p50k_edit":
		return r50kPattern
	case "cl100k_base":
		return cl100kPattern
	case "o200k_base", "o200k_harmony":
		return o200kPattern
	default:
		return ""
	}
}
