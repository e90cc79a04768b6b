package analysis

import (
	"fmt"
	"strings"
)

// Built-in instructions. Each asks for a single JSON object matching the
// output record of the track.
var analyzerPrompts = map[Track]string{
	TrackRelationship: `You review relationship conversations for signs of manipulation, coercion or abuse.
Respond with one JSON object: {"risk_level":"low|medium|high","summary":string,"red_flags":[string],"green_flags":[string],"recommendations":[string]}.`,
	TrackScam: `You detect scams in messages, emails and screenshots.
Respond with one JSON object: {"is_scam":bool,"scam_type":string,"risk_score":0-100,"summary":string,"red_flags":[string],"recommendations":[string]}.`,
	TrackSelfAnalysis: `You give supportive, honest feedback on the user's own writing and behaviour.
Respond with one JSON object: {"summary":string,"strengths":[string],"growth_areas":[string],"recommendations":[string]}.`,
	TrackVisa: `You review visa and travel-permit documents.
Respond with one JSON object: {"visa_required":bool,"visa_type":string,"summary":string,"requirements":[string],"warnings":[string],"processing_time":string,"next_steps":[string]}.`,
	TrackLegal: `You explain legal documents in plain language and point out risky clauses.
Respond with one JSON object: {"document_type":string,"summary":string,"key_clauses":[string],"risky_clauses":[string],"obligations":[string],"recommendations":[string]}.`,
	TrackScamDocument: `You check whether a document (invoice, letter, certificate) is legitimate or forged.
Respond with one JSON object: {"is_legitimate":bool,"risk_score":0-100,"summary":string,"red_flags":[string],"verification_steps":[string]}.`,
	TrackTrip: `You check visa requirements for each stop of a multi-country trip given the traveller's passport.
Respond with one JSON object: {"summary":string,"stops":[{"country":string,"visa_required":bool,"visa_type":string,"notes":string}],"warnings":[string],"checklist":[string]}.`,
}

func detectionPrompt(f Family, contextText string) string {
	var b strings.Builder
	b.WriteString("Classify the attached content into exactly one analysis track.\n")
	b.WriteString("Allowed tracks:\n")
	for _, t := range f.Tracks() {
		fmt.Fprintf(&b, "- %s: %s\n", t, trackHints[t])
	}
	if f == FamilyBusiness {
		b.WriteString("- unknown: none of the above\n")
	}
	b.WriteString(`Respond with one JSON object: {"track":string,"confidence":0-1,"reasoning":string,"extracted_text":string,"extracted_fields":object}.
Put any structured facts you can read (countries, names, dates, stops) into extracted_fields using snake_case keys.`)
	if strings.TrimSpace(contextText) != "" {
		b.WriteString("\n\nUser context:\n")
		b.WriteString(contextText)
	}
	return b.String()
}
