package analysis

import (
	"context"
	"sync"

	"guardian/internal/ai"
)

// stubLLM replays canned replies in order, repeating the last one.
type stubLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
	images  []*ai.Image
}

func (s *stubLLM) Generate(_ context.Context, prompt string, image *ai.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	s.images = append(s.images, image)

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i], nil
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// spyAnalyzer records every call and returns a fixed output.
type spyAnalyzer[In any, Out AnalyzerOutput] struct {
	calls  int
	inputs []In
	out    Out
	err    error
}

func (s *spyAnalyzer[In, Out]) Analyze(_ context.Context, in In) (Out, error) {
	s.calls++
	s.inputs = append(s.inputs, in)
	return s.out, s.err
}

type spies struct {
	relationship *spyAnalyzer[RelationshipInput, *RelationshipOutput]
	scam         *spyAnalyzer[ScamInput, *ScamOutput]
	self         *spyAnalyzer[SelfAnalysisInput, *SelfAnalysisOutput]
	visa         *spyAnalyzer[VisaInput, *VisaOutput]
	legal        *spyAnalyzer[LegalInput, *LegalOutput]
	scamDoc      *spyAnalyzer[ScamDocumentInput, *ScamDocumentOutput]
	trip         *spyAnalyzer[TripInput, *TripOutput]
}

func newSpies() *spies {
	return &spies{
		relationship: &spyAnalyzer[RelationshipInput, *RelationshipOutput]{out: &RelationshipOutput{RiskLevel: "low", Summary: "ok", Recommendations: []string{"Talk it through."}}},
		scam:         &spyAnalyzer[ScamInput, *ScamOutput]{out: &ScamOutput{IsScam: true, ScamType: "phishing", RiskScore: 91, Recommendations: []string{"Do not click the link."}}},
		self:         &spyAnalyzer[SelfAnalysisInput, *SelfAnalysisOutput]{out: &SelfAnalysisOutput{Summary: "clear writer", Strengths: []string{"concise"}}},
		visa:         &spyAnalyzer[VisaInput, *VisaOutput]{out: &VisaOutput{VisaRequired: true, VisaType: "Schengen C", NextSteps: []string{"Book an appointment."}}},
		legal:        &spyAnalyzer[LegalInput, *LegalOutput]{out: &LegalOutput{DocumentType: "lease", RiskyClauses: []string{"auto renewal"}}},
		scamDoc:      &spyAnalyzer[ScamDocumentInput, *ScamDocumentOutput]{out: &ScamDocumentOutput{IsLegitimate: false, RiskScore: 80, VerificationSteps: []string{"Call the issuer."}}},
		trip:         &spyAnalyzer[TripInput, *TripOutput]{out: &TripOutput{Summary: "two stops", Stops: []TripStopResult{{Country: "FR"}, {Country: "IT"}}}},
	}
}

func (s *spies) analyzers() Analyzers {
	return Analyzers{
		Relationship: s.relationship,
		Scam:         s.scam,
		SelfAnalysis: s.self,
		Visa:         s.visa,
		Legal:        s.legal,
		ScamDocument: s.scamDoc,
		Trip:         s.trip,
	}
}

func (s *spies) counts() map[Track]int {
	return map[Track]int{
		TrackRelationship: s.relationship.calls,
		TrackScam:         s.scam.calls,
		TrackSelfAnalysis: s.self.calls,
		TrackVisa:         s.visa.calls,
		TrackLegal:        s.legal.calls,
		TrackScamDocument: s.scamDoc.calls,
		TrackTrip:         s.trip.calls,
	}
}

func (s *spies) total() int {
	n := 0
	for _, c := range s.counts() {
		n += c
	}
	return n
}

func tripFields(countries ...string) map[string]any {
	stops := make([]any, 0, len(countries))
	for _, c := range countries {
		stops = append(stops, map[string]any{"country": c})
	}
	return map[string]any{"stops": stops}
}
