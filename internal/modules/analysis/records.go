package analysis

import (
	"fmt"
	"strings"

	"guardian/internal/ai"
)

// AnalyzerOutput is implemented only by the output records in this file, so
// every value reaching synthesis is one of the known per-track shapes.
type AnalyzerOutput interface {
	Track() Track
	headline() string
	sections() []section
	actions() []string
}

type section struct {
	Title string
	Body  string
	Items []string
}

// Inputs. Binary attachments are excluded from the JSON handed to the model.

type RelationshipInput struct {
	Text    string    `json:"text"`
	Context string    `json:"context"`
	Image   *ai.Image `json:"-"`
}

func (in RelationshipInput) Attachment() *ai.Image { return in.Image }

type ScamInput struct {
	Text          string    `json:"text"`
	ExtractedText string    `json:"extracted_text"`
	Sender        string    `json:"sender"`
	Image         *ai.Image `json:"-"`
}

func (in ScamInput) Attachment() *ai.Image { return in.Image }

type SelfAnalysisInput struct {
	Text  string    `json:"text"`
	Focus string    `json:"focus"`
	Image *ai.Image `json:"-"`
}

func (in SelfAnalysisInput) Attachment() *ai.Image { return in.Image }

type VisaInput struct {
	DestinationCountry string    `json:"destination_country"`
	PassportCountry    string    `json:"passport_country"`
	TravelPurpose      string    `json:"travel_purpose"`
	Text               string    `json:"text"`
	Document           *ai.Image `json:"-"`
}

func (in VisaInput) Attachment() *ai.Image { return in.Document }

type LegalInput struct {
	DocumentType string    `json:"document_type"`
	Jurisdiction string    `json:"jurisdiction"`
	Text         string    `json:"text"`
	Document     *ai.Image `json:"-"`
}

func (in LegalInput) Attachment() *ai.Image { return in.Document }

type ScamDocumentInput struct {
	ClaimedSender string    `json:"claimed_sender"`
	Text          string    `json:"text"`
	Document      *ai.Image `json:"-"`
}

func (in ScamDocumentInput) Attachment() *ai.Image { return in.Document }

type TripStop struct {
	Country string `json:"country"`
	Purpose string `json:"purpose"`
	Days    int    `json:"days,omitempty"`
}

type TripInput struct {
	PassportCountry string     `json:"passport_country"`
	Stops           []TripStop `json:"stops"`
}

func (in TripInput) Attachment() *ai.Image { return nil }

// Outputs.

type RelationshipOutput struct {
	RiskLevel       string   `json:"risk_level"`
	Summary         string   `json:"summary"`
	RedFlags        []string `json:"red_flags"`
	GreenFlags      []string `json:"green_flags"`
	Recommendations []string `json:"recommendations"`
}

func (o *RelationshipOutput) Track() Track { return TrackRelationship }

func (o *RelationshipOutput) headline() string {
	return fmt.Sprintf("Relationship check: %s risk", orDefault(o.RiskLevel, "unrated"))
}

func (o *RelationshipOutput) sections() []section {
	return []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Red flags", Items: o.RedFlags},
		{Title: "Green flags", Items: o.GreenFlags},
	}
}

func (o *RelationshipOutput) actions() []string { return o.Recommendations }

type ScamOutput struct {
	IsScam          bool     `json:"is_scam"`
	ScamType        string   `json:"scam_type"`
	RiskScore       float64  `json:"risk_score"`
	Summary         string   `json:"summary"`
	RedFlags        []string `json:"red_flags"`
	Recommendations []string `json:"recommendations"`
}

func (o *ScamOutput) Track() Track { return TrackScam }

func (o *ScamOutput) headline() string {
	if o.IsScam {
		return fmt.Sprintf("Likely scam (%s), risk %s/100", orDefault(o.ScamType, "unspecified type"), score(o.RiskScore))
	}
	return fmt.Sprintf("No clear scam pattern, risk %s/100", score(o.RiskScore))
}

func (o *ScamOutput) sections() []section {
	return []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Warning signs", Items: o.RedFlags},
	}
}

func (o *ScamOutput) actions() []string { return o.Recommendations }

type SelfAnalysisOutput struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	GrowthAreas     []string `json:"growth_areas"`
	Recommendations []string `json:"recommendations"`
}

func (o *SelfAnalysisOutput) Track() Track { return TrackSelfAnalysis }

func (o *SelfAnalysisOutput) headline() string { return "Self reflection" }

func (o *SelfAnalysisOutput) sections() []section {
	return []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Strengths", Items: o.Strengths},
		{Title: "Growth areas", Items: o.GrowthAreas},
	}
}

func (o *SelfAnalysisOutput) actions() []string { return o.Recommendations }

type VisaOutput struct {
	VisaRequired   bool     `json:"visa_required"`
	VisaType       string   `json:"visa_type"`
	Summary        string   `json:"summary"`
	Requirements   []string `json:"requirements"`
	Warnings       []string `json:"warnings"`
	ProcessingTime string   `json:"processing_time"`
	NextSteps      []string `json:"next_steps"`
}

func (o *VisaOutput) Track() Track { return TrackVisa }

func (o *VisaOutput) headline() string {
	if !o.VisaRequired {
		return "Visa document: no visa required"
	}
	return "Visa document: " + orDefault(o.VisaType, "visa") + " required"
}

func (o *VisaOutput) sections() []section {
	secs := []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Requirements", Items: o.Requirements},
		{Title: "Warnings", Items: o.Warnings},
	}
	if o.ProcessingTime != "" {
		secs = append(secs, section{Title: "Processing time", Body: o.ProcessingTime})
	}
	return secs
}

func (o *VisaOutput) actions() []string { return o.NextSteps }

type LegalOutput struct {
	DocumentType    string   `json:"document_type"`
	Summary         string   `json:"summary"`
	KeyClauses      []string `json:"key_clauses"`
	RiskyClauses    []string `json:"risky_clauses"`
	Obligations     []string `json:"obligations"`
	Recommendations []string `json:"recommendations"`
}

func (o *LegalOutput) Track() Track { return TrackLegal }

func (o *LegalOutput) headline() string {
	h := "Legal review: " + orDefault(o.DocumentType, "document")
	if n := len(o.RiskyClauses); n > 0 {
		h += fmt.Sprintf(", %d risky clause%s", n, plural(n))
	}
	return h
}

func (o *LegalOutput) sections() []section {
	return []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Key clauses", Items: o.KeyClauses},
		{Title: "Risky clauses", Items: o.RiskyClauses},
		{Title: "Your obligations", Items: o.Obligations},
	}
}

func (o *LegalOutput) actions() []string { return o.Recommendations }

type ScamDocumentOutput struct {
	IsLegitimate      bool     `json:"is_legitimate"`
	RiskScore         float64  `json:"risk_score"`
	Summary           string   `json:"summary"`
	RedFlags          []string `json:"red_flags"`
	VerificationSteps []string `json:"verification_steps"`
}

func (o *ScamDocumentOutput) Track() Track { return TrackScamDocument }

func (o *ScamDocumentOutput) headline() string {
	if o.IsLegitimate {
		return fmt.Sprintf("Document looks legitimate, risk %s/100", score(o.RiskScore))
	}
	return fmt.Sprintf("Document may be fraudulent, risk %s/100", score(o.RiskScore))
}

func (o *ScamDocumentOutput) sections() []section {
	return []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Red flags", Items: o.RedFlags},
	}
}

func (o *ScamDocumentOutput) actions() []string { return o.VerificationSteps }

type TripStopResult struct {
	Country      string `json:"country"`
	VisaRequired bool   `json:"visa_required"`
	VisaType     string `json:"visa_type"`
	Notes        string `json:"notes"`
}

type TripOutput struct {
	Summary   string           `json:"summary"`
	Stops     []TripStopResult `json:"stops"`
	Warnings  []string         `json:"warnings"`
	Checklist []string         `json:"checklist"`
}

func (o *TripOutput) Track() Track { return TrackTrip }

func (o *TripOutput) headline() string {
	need := 0
	for _, s := range o.Stops {
		if s.VisaRequired {
			need++
		}
	}
	return fmt.Sprintf("Trip plan: %d stop%s, %d need a visa", len(o.Stops), plural(len(o.Stops)), need)
}

func (o *TripOutput) sections() []section {
	stops := make([]string, 0, len(o.Stops))
	for _, s := range o.Stops {
		line := s.Country + ": "
		if s.VisaRequired {
			line += orDefault(s.VisaType, "visa") + " required"
		} else {
			line += "no visa required"
		}
		if s.Notes != "" {
			line += " (" + s.Notes + ")"
		}
		stops = append(stops, line)
	}
	return []section{
		{Title: "Summary", Body: o.Summary},
		{Title: "Stops", Items: stops},
		{Title: "Warnings", Items: o.Warnings},
	}
}

func (o *TripOutput) actions() []string { return o.Checklist }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func score(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return fmt.Sprintf("%.0f", v)
}
