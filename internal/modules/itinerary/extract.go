package itinerary

import (
	"encoding/json"
	"regexp"
	"strings"

	"guardian/internal/parser"
)

var (
	reFencedJSON  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(\\{.*?\\})\\s*```")
	reInlineSpace = regexp.MustCompile(`[ \t]{2,}`)
	reBlankLines  = regexp.MustCompile(`\n{3,}`)
)

// Extract pulls the itinerary out of an assistant reply. It returns the
// decoded payload and the reply with the JSON block removed. Fenced blocks are
// tried before bare objects, in order. JSON that does not declare
// "type":"itinerary" is ordinary content and is skipped. When nothing matches,
// the error is ErrNoItinerary and clean is the trimmed original text. An
// object that declares itself an itinerary but breaks the contract yields
// ErrInvalidItinerary, unless a later candidate is valid.
func Extract(text string) (payload *Payload, clean string, err error) {
	var invalid error
	for _, c := range candidates(text) {
		raw := []byte(text[c.rawStart:c.rawEnd])
		if !declaresItinerary(raw) {
			continue
		}
		p, err := DecodePayload(raw)
		if err != nil {
			if invalid == nil {
				invalid = err
			}
			continue
		}
		return p, tidy(text[:c.start] + " " + text[c.end:]), nil
	}
	if invalid != nil {
		return nil, strings.TrimSpace(text), invalid
	}
	return nil, strings.TrimSpace(text), ErrNoItinerary
}

// span is a region to cut from the text and the JSON inside it.
type span struct {
	start, end       int
	rawStart, rawEnd int
}

func candidates(text string) []span {
	var out []span
	for _, m := range reFencedJSON.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, span{m[0], m[1], m[2], m[3]})
	}
	for off := 0; off < len(text); {
		i := strings.IndexByte(text[off:], '{')
		if i < 0 {
			break
		}
		s, e, ok := parser.FindObject(text[off+i:])
		if !ok {
			off += i + 1
			continue
		}
		s, e = off+i+s, off+i+e
		out = append(out, span{s, e, s, e})
		off = e
	}
	return out
}

func declaresItinerary(raw []byte) bool {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return false
	}
	return head.Type == "itinerary"
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(reInlineSpace.ReplaceAllString(l, " "))
	}
	return strings.TrimSpace(reBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
