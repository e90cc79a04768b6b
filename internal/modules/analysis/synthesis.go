package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var errNoOutputs = errors.New("synthesis needs at least one analyzer output")

const defaultVoiceChars = 600

// Synthesizer merges analyzer outputs into a report. It holds no state beyond
// configuration, so identical outputs always produce identical reports.
type Synthesizer struct {
	MaxVoiceChars int
}

func (s Synthesizer) voiceLimit() int {
	if s.MaxVoiceChars <= 0 {
		return defaultVoiceChars
	}
	return s.MaxVoiceChars
}

// Synthesize builds the report for a single analyzer output.
func (s Synthesizer) Synthesize(out AnalyzerOutput) SynthesizedReport {
	r, _ := s.SynthesizeAll(out)
	return r
}

// SynthesizeAll merges one or more outputs in the given order. Action items
// are deduplicated, keeping the first occurrence.
func (s Synthesizer) SynthesizeAll(outputs ...AnalyzerOutput) (SynthesizedReport, error) {
	outputs = nonNil(outputs)
	if len(outputs) == 0 {
		return SynthesizedReport{}, &Error{Kind: KindAnalysisFailed, Detail: errNoOutputs.Error(), Err: errNoOutputs}
	}

	headline := outputs[0].headline()
	if len(outputs) > 1 {
		labels := make([]string, 0, len(outputs))
		for _, o := range outputs {
			labels = append(labels, o.Track().Label())
		}
		headline = "Combined analysis: " + strings.Join(labels, ", ")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# %s\n", headline)
	perTrack := make(map[Track]AnalyzerOutput, len(outputs))
	var actions []string
	for _, o := range outputs {
		if len(outputs) > 1 {
			fmt.Fprintf(&body, "\n## %s\n\n%s\n", o.Track().Label(), o.headline())
		}
		writeSections(&body, o.sections(), len(outputs) > 1)
		actions = append(actions, o.actions()...)
		perTrack[o.Track()] = o
	}

	actions = dedupe(actions)
	if len(actions) == 0 {
		actions = []string{"Review the full report and keep a copy for your records."}
	}
	body.WriteString("\n## Next steps\n\n")
	for i, a := range actions {
		fmt.Fprintf(&body, "%d. %s\n", i+1, a)
	}

	full := strings.TrimSpace(body.String())
	return SynthesizedReport{
		Headline:    headline,
		FullText:    full,
		ActionItems: actions,
		VoiceText:   VoiceOptimize(full, s.voiceLimit()),
		PerTrackRaw: perTrack,
	}, nil
}

// Fallback is the canned report for detections the router refuses to route.
func (s Synthesizer) Fallback(f Family, d DetectionResult) SynthesizedReport {
	const headline = "We could not classify this content"

	var body strings.Builder
	fmt.Fprintf(&body, "# %s\n\n", headline)
	body.WriteString("The content did not match any supported analysis with enough confidence, so no specialised check was run.\n")
	if r := strings.TrimSpace(d.Reasoning); r != "" {
		fmt.Fprintf(&body, "\nReason: %s\n", r)
	}
	body.WriteString("\n## Supported analyses\n\n")

	tracks := f.Tracks()
	actions := make([]string, 0, len(tracks))
	for _, t := range tracks {
		fmt.Fprintf(&body, "- **%s**: %s\n", t.Label(), trackHints[t])
		actions = append(actions, fmt.Sprintf("Resubmit as %s with %s.", t.Label(), trackHints[t]))
	}

	full := strings.TrimSpace(body.String())
	return SynthesizedReport{
		Headline:    headline,
		FullText:    full,
		ActionItems: actions,
		VoiceText:   VoiceOptimize(full, s.voiceLimit()),
		PerTrackRaw: map[Track]AnalyzerOutput{},
	}
}

func writeSections(b *strings.Builder, secs []section, nested bool) {
	heading := "##"
	if nested {
		heading = "###"
	}
	for _, sec := range secs {
		body := strings.TrimSpace(sec.Body)
		items := dedupe(sec.Items)
		if body == "" && len(items) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n%s %s\n\n", heading, sec.Title)
		if body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
		for _, it := range items {
			fmt.Fprintf(b, "- %s\n", it)
		}
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func nonNil(outputs []AnalyzerOutput) []AnalyzerOutput {
	out := outputs[:0:0]
	for _, o := range outputs {
		if o != nil && !isNilOutput(o) {
			out = append(out, o)
		}
	}
	return out
}

// isNilOutput catches typed nil pointers stored in the interface.
func isNilOutput(o AnalyzerOutput) bool {
	switch v := o.(type) {
	case *RelationshipOutput:
		return v == nil
	case *ScamOutput:
		return v == nil
	case *SelfAnalysisOutput:
		return v == nil
	case *VisaOutput:
		return v == nil
	case *LegalOutput:
		return v == nil
	case *ScamDocumentOutput:
		return v == nil
	case *TripOutput:
		return v == nil
	}
	return false
}
