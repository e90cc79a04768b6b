package analysis

import (
	"regexp"
	"strings"
)

var (
	reCodeFence  = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`([^`]*)`")
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	reURL        = regexp.MustCompile(`https?://\S+`)
	reEmphasis   = regexp.MustCompile(`(\*\*|__|\*)`)
	reListMarker = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	reHeading    = regexp.MustCompile(`^\s*#{1,6}\s*`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reSpaceComma = regexp.MustCompile(`\s+([,.!?])`)
)

var voiceReplacer = strings.NewReplacer(
	"&", " and ",
	";", ",",
	": ", ", ",
	"(", "",
	")", "",
	"[", "",
	"]", "",
	"\"", "",
)

// VoiceOptimize turns a finished markdown report into short plain text for
// speech. Every heading and list item becomes its own sentence; the result is
// cut at a sentence boundary at or below maxChars.
func VoiceOptimize(markdown string, maxChars int) string {
	text := reCodeFence.ReplaceAllString(markdown, " ")
	text = reImage.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1")
	text = reURL.ReplaceAllString(text, "")
	text = reInlineCode.ReplaceAllString(text, "$1")

	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimPrefix(strings.TrimSpace(line), ">")
		line = reHeading.ReplaceAllString(line, "")
		line = reListMarker.ReplaceAllString(line, "")
		line = reEmphasis.ReplaceAllString(line, "")
		line = voiceReplacer.Replace(line)
		line = strings.TrimSpace(reSpaces.ReplaceAllString(line, " "))
		line = strings.TrimRight(line, ",:; ")
		if line == "" {
			continue
		}
		if !strings.ContainsAny(line[len(line)-1:], ".!?") {
			line += "."
		}
		sentences = append(sentences, line)
	}

	out := reSpaceComma.ReplaceAllString(strings.Join(sentences, " "), "$1")
	if maxChars > 0 {
		out = truncateSentence(out, maxChars)
	}
	return out
}

func truncateSentence(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	cut := strings.ToValidUTF8(s[:maxChars], "")
	if i := strings.LastIndexAny(cut, ".!?"); i > 0 {
		return cut[:i+1]
	}
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ",") + "."
}
