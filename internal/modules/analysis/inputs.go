package analysis

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const defaultTripPurpose = "tourism"

// decodeFields copies detector-extracted fields into a typed input record.
// Numbers arriving as strings (and the reverse) are accepted.
func decodeFields(fields map[string]any, out any) error {
	if len(fields) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

func fieldsError(t Track, err error) *Error {
	return &Error{Kind: KindAnalysisFailed, Track: t, Detail: "extracted fields do not match the track input", Err: err}
}

func bodyText(d DetectionResult, in RawInput) string {
	if strings.TrimSpace(in.Text) != "" {
		return in.Text
	}
	return d.ExtractedText
}

func buildRelationshipInput(d DetectionResult, in RawInput) (RelationshipInput, error) {
	var out RelationshipInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackRelationship, err)
	}
	out.Text = bodyText(d, in)
	if out.Context == "" {
		out.Context = in.Context
	}
	out.Image = in.attachment()
	return out, nil
}

func buildScamInput(d DetectionResult, in RawInput) (ScamInput, error) {
	var out ScamInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackScam, err)
	}
	out.Text = in.Text
	if out.ExtractedText == "" {
		out.ExtractedText = d.ExtractedText
	}
	out.Image = in.attachment()
	return out, nil
}

func buildSelfAnalysisInput(d DetectionResult, in RawInput) (SelfAnalysisInput, error) {
	var out SelfAnalysisInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackSelfAnalysis, err)
	}
	out.Text = bodyText(d, in)
	out.Image = in.attachment()
	return out, nil
}

func buildVisaInput(d DetectionResult, in RawInput) (VisaInput, error) {
	var out VisaInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackVisa, err)
	}
	out.Text = bodyText(d, in)
	out.Document = in.attachment()
	return out, nil
}

func buildLegalInput(d DetectionResult, in RawInput) (LegalInput, error) {
	var out LegalInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackLegal, err)
	}
	out.Text = bodyText(d, in)
	out.Document = in.attachment()
	return out, nil
}

func buildScamDocumentInput(d DetectionResult, in RawInput) (ScamDocumentInput, error) {
	var out ScamDocumentInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackScamDocument, err)
	}
	out.Text = bodyText(d, in)
	out.Document = in.attachment()
	return out, nil
}

func buildTripInput(d DetectionResult, _ RawInput) (TripInput, error) {
	var out TripInput
	if err := decodeFields(d.ExtractedFields, &out); err != nil {
		return out, fieldsError(TrackTrip, err)
	}
	for i := range out.Stops {
		out.Stops[i].Country = strings.TrimSpace(out.Stops[i].Country)
		if strings.TrimSpace(out.Stops[i].Purpose) == "" {
			out.Stops[i].Purpose = defaultTripPurpose
		}
	}
	if len(out.Stops) == 0 {
		return out, fieldsError(TrackTrip, fmt.Errorf("trip has no stops"))
	}
	return out, nil
}
