package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		reply  string
		err    error
		want   DetectionResult
	}{
		{
			name:   "json inside prose",
			family: FamilyBusiness,
			reply:  `Sure, here it is: {"track":"visa","confidence":0.82,"reasoning":"passport stamp","extracted_fields":{"destination_country":"JP"}} thanks`,
			want: DetectionResult{
				Track: TrackVisa, Confidence: 0.82, Reasoning: "passport stamp",
				ExtractedFields: map[string]any{"destination_country": "JP"},
			},
		},
		{
			name:   "confidence above one is clamped",
			family: FamilyPersonal,
			reply:  `{"track":"scam","confidence":7,"reasoning":"gift card request"}`,
			want:   DetectionResult{Track: TrackScam, Confidence: 1, Reasoning: "gift card request"},
		},
		{
			name:   "negative confidence is clamped",
			family: FamilyPersonal,
			reply:  `{"track":"relationship","confidence":-0.4}`,
			want:   DetectionResult{Track: TrackRelationship, Confidence: 0},
		},
		{
			name:   "missing confidence is zero",
			family: FamilyBusiness,
			reply:  `{"track":"legal","reasoning":"lease"}`,
			want:   DetectionResult{Track: TrackLegal, Confidence: 0, Reasoning: "lease"},
		},
		{
			name:   "track case is normalised",
			family: FamilyBusiness,
			reply:  `{"track":" Trip ","confidence":0.6}`,
			want:   DetectionResult{Track: TrackTrip, Confidence: 0.6},
		},
		{
			name:   "explicit unknown keeps the model reasoning",
			family: FamilyBusiness,
			reply:  `{"track":"unknown","confidence":0.9,"reasoning":"a cat photo"}`,
			want:   DetectionResult{Track: TrackUnknown, Confidence: 0.9, Reasoning: "a cat photo"},
		},
		{
			name:   "unknown is not a personal track",
			family: FamilyPersonal,
			reply:  `{"track":"unknown","confidence":0.9}`,
			want:   failedDetection(),
		},
		{
			name:   "track from the other family",
			family: FamilyPersonal,
			reply:  `{"track":"visa","confidence":0.9}`,
			want:   failedDetection(),
		},
		{
			name:   "unparseable reply",
			family: FamilyBusiness,
			reply:  "I think this is a visa.",
			want:   failedDetection(),
		},
		{
			name:   "provider failure",
			family: FamilyBusiness,
			err:    errors.New("503 unavailable"),
			want:   failedDetection(),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := &stubLLM{replies: []string{tc.reply}, errs: []error{tc.err}}
			d := NewDetector(llm, nil, zaptest.NewLogger(t))

			got := d.Detect(context.Background(), tc.family, RawInput{Text: "content"}, "")
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 1, llm.calls(), "detection is never retried")
		})
	}
}

func TestDetect_FailedReasoning(t *testing.T) {
	assert.Equal(t, "Failed to analyze document", failedDetection().Reasoning)
}

func TestDetect_PromptCarriesContentAndImage(t *testing.T) {
	llm := &stubLLM{replies: []string{`{"track":"scam","confidence":1}`}}
	d := NewDetector(llm, nil, nil)

	in := RawInput{Text: "you won a prize", ImageBytes: []byte("\x89PNG\r\n\x1a\n"), ImageMIMEType: "image/png"}
	d.Detect(context.Background(), FamilyPersonal, in, "sent by an unknown number")

	require.Equal(t, 1, llm.calls())
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "you won a prize")
	assert.Contains(t, prompt, "sent by an unknown number")
	assert.Contains(t, prompt, "self_analysis")
	assert.NotContains(t, prompt, "scam_document")
	require.NotNil(t, llm.images[0])
	assert.Equal(t, "image/png", llm.images[0].MIMEType)
}
