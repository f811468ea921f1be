package pretrained

import "fmt"

const (
	startOfText  = "<|startoftext|>"
	endOfText    = "<|endoftext|>"
	endOfPrompt  = "<|endofprompt|>"
	fimPrefix    = "<|fim_prefix|>"
	fimMiddle    = "<|fim_middle|>"
	fimSuffix    = "<|fim_suffix|>"
	returnTok    = "<|return|>"
	constrainTok = "<|constrain|>"
	channelTok   = "<|channel|>"
	startTok     = "<|start|>"
	endTok       = "<|end|>"
	messageTok   = "<|message|>"
	callTok      = "<|call|>"
)

// r50kSpecials covers r50k_base, p50k_base, and is the prefix of p50k_edit's.
var r50kSpecials = map[string]uint32{
	endOfText: 50256,
}

var p50kEditSpecials = map[string]uint32{
	endOfText: 50256,
	fimPrefix: 50281,
	fimMiddle: 50282,
	fimSuffix: 50283,
}

var cl100kSpecials = map[string]uint32{
	endOfText:   100257,
	fimPrefix:   100258,
	fimMiddle:   100259,
	fimSuffix:   100260,
	endOfPrompt: 100276,
}

var o200kBaseSpecials = map[string]uint32{
	endOfText:   199999,
	endOfPrompt: 200018,
}

var o200kHarmonyNamedSpecials = map[string]uint32{
	startOfText:  199998,
	endOfText:    199999,
	endOfPrompt:  200018,
	returnTok:    200002,
	constrainTok: 200003,
	channelTok:   200005,
	startTok:     200006,
	endTok:       200007,
	messageTok:   200008,
	callTok:      200012,
}

// formatReserved names an o200k_harmony reserved token the way the model's
// own tokenizer does: "<|reserved_200000|>".
func formatReserved(id uint32) string {
	return fmt.Sprintf("<|reserved_%d|>", id)
}

// o200kHarmonyReserved lists every id in o200k_harmony's reserved range.
// Generated rather than hand-listed because of its size: six low reserved
// ids plus the full 200013..201088 block that isn't otherwise named.
var o200kHarmonyReservedIDs = func() []uint32 {
	ids := []uint32{200000, 200001, 200004, 200009, 200010, 200011}
	for v := uint32(200013); v < 201088; v++ {
		if v == o200kHarmonyNamedSpecials[endOfPrompt] {
			continue
		}
		ids = append(ids, v)
	}
	return ids
}()

// Specials returns the special-token table for a bare model name.
func Specials(name string) map[string]uint32 {
	switch name {
	case "r50k_base", "p50k_base":
		return copyMap(r50kSpecials)
	case "p50k_edit":
		return copyMap(p50kEditSpecials)
	case "cl100k_base":
		return copyMap(cl100kSpecials)
	case "o200k_base":
		return copyMap(o200kBaseSpecials)
	case "o200k_harmony":
		out := copyMap(o200kHarmonyNamedSpecials)
		for _, id := range o200kHarmonyReservedIDs {
			out[formatReserved(id)] = id
		}
		return out
	default:
		return nil
	}
}

func copyMap(m map[string]uint32) map[string]uint32 {
	out := make(map[string]uint32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
