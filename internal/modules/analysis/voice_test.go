package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceOptimize_StripsMarkdown(t *testing.T) {
	md := "# Likely scam\n\n" +
		"The sender asks for **gift cards**; see [the guide](https://example.com/guide).\n\n" +
		"## Warning signs\n\n" +
		"- Urgent deadline\n" +
		"* Unknown number\n\n" +
		"```\ncode block\n```\n" +
		"1. Block the sender\n" +
		"2. Report at https://report.example.org\n" +
		"> Time: 10:30"

	got := VoiceOptimize(md, 0)
	assert.Equal(t,
		"Likely scam. The sender asks for gift cards, see the guide. Warning signs. Urgent deadline. Unknown number. Block the sender. Report at. Time, 10:30.",
		got)
}

func TestVoiceOptimize_TruncatesAtSentence(t *testing.T) {
	md := "First sentence here. Second sentence is longer than the first one. Third."
	got := VoiceOptimize(md, 40)
	assert.Equal(t, "First sentence here.", got)
	assert.LessOrEqual(t, len(got), 40)
}

func TestVoiceOptimize_TruncatesWithoutSentenceEnd(t *testing.T) {
	md := strings.Repeat("word ", 30)
	got := VoiceOptimize(md, 24)
	assert.LessOrEqual(t, len(got), 25)
	assert.True(t, strings.HasSuffix(got, "word."))
}

func TestVoiceOptimize_Deterministic(t *testing.T) {
	md := Synthesizer{}.Synthesize(sampleVisa()).FullText
	assert.Equal(t, VoiceOptimize(md, 200), VoiceOptimize(md, 200))
}
