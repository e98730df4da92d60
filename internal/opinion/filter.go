package opinion

import (
	"regexp"
	"strings"
)

// Opinion classification confidence. This reflects certainty that the
// input is a subjective statement, not certainty about attack presence.
const Confidence = 0.95

// Filter short-circuits classification for subjective statements.
// Persuasive and evaluative language overlaps with several attack
// patterns; suppressing detection on opinions trades a small recall
// cost for a large precision gain.
type Filter struct {
	stanceMarkers []string
	evaluative    *regexp.Regexp
}

// NewFilter creates a filter with the fixed lexical marker lists
func NewFilter() *Filter {
	return &Filter{
		stanceMarkers: []string{
			"i think", "i believe", "i feel", "in my opinion", "in my view",
			"personally", "i prefer", "i would argue", "it seems to me",
			"if you ask me", "my take is", "i find it", "i consider",
			"mielestäni", "minusta", // Finnish stance markers
		},
		evaluative: regexp.MustCompile(
			`(?i)\b(wonderful|terrible|amazing|awful|fantastic|horrible|` +
				`brilliant|dreadful|overrated|underrated|best|worst)\b`,
		),
	}
}

// IsOpinion reports whether the text reads as a subjective statement.
// A first-person stance marker alone is enough; an evaluative adjective
// only counts when the sentence also addresses the speaker's judgment
// rather than issuing an instruction.
func (f *Filter) IsOpinion(text string) bool {
	lower := strings.ToLower(text)

	for _, marker := range f.stanceMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	if f.evaluative.MatchString(text) && !looksImperative(lower) {
		return true
	}

	return false
}

// looksImperative flags sentences that open with a bare verb form
// common in instruction-style prompts.
func looksImperative(lower string) bool {
	trimmed := strings.TrimSpace(lower)
	for _, verb := range []string{
		"ignore ", "forget ", "disregard ", "pretend ", "act ",
		"tell ", "write ", "give ", "show ", "reveal ", "bypass ",
		"enable ", "override ", "respond ", "answer ",
	} {
		if strings.HasPrefix(trimmed, verb) {
			return true
		}
	}
	return false
}
