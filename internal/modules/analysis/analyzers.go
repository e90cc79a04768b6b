package analysis

import (
	"context"

	"guardian/internal/ai"
)

// Analyzer turns one track-specific input into its structured output.
type Analyzer[In any, Out AnalyzerOutput] interface {
	Analyze(ctx context.Context, in In) (Out, error)
}

// Analyzers binds one analyzer per track. A nil field leaves the track
// unbound; routing to it fails with ErrUnhandledTrack.
type Analyzers struct {
	Relationship Analyzer[RelationshipInput, *RelationshipOutput]
	Scam         Analyzer[ScamInput, *ScamOutput]
	SelfAnalysis Analyzer[SelfAnalysisInput, *SelfAnalysisOutput]
	Visa         Analyzer[VisaInput, *VisaOutput]
	Legal        Analyzer[LegalInput, *LegalOutput]
	ScamDocument Analyzer[ScamDocumentInput, *ScamDocumentOutput]
	Trip         Analyzer[TripInput, *TripOutput]
}

// NewLLMAnalyzers binds every track to a model-backed analyzer.
func NewLLMAnalyzers(client ai.LanguageModelClient, opts LLMOptions) Analyzers {
	return Analyzers{
		Relationship: newLLMAnalyzer[RelationshipInput, RelationshipOutput](TrackRelationship, client, opts),
		Scam:         newLLMAnalyzer[ScamInput, ScamOutput](TrackScam, client, opts),
		SelfAnalysis: newLLMAnalyzer[SelfAnalysisInput, SelfAnalysisOutput](TrackSelfAnalysis, client, opts),
		Visa:         newLLMAnalyzer[VisaInput, VisaOutput](TrackVisa, client, opts),
		Legal:        newLLMAnalyzer[LegalInput, LegalOutput](TrackLegal, client, opts),
		ScamDocument: newLLMAnalyzer[ScamDocumentInput, ScamDocumentOutput](TrackScamDocument, client, opts),
		Trip:         newLLMAnalyzer[TripInput, TripOutput](TrackTrip, client, opts),
	}
}
