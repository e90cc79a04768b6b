package analysis

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian/internal/ai"
)

var fastRetry = RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

func TestLLMAnalyzer_DecodesReply(t *testing.T) {
	llm := &stubLLM{replies: []string{"Result:\n```json\n" + `{"visa_required":true,"visa_type":"eVisa","next_steps":["Apply online"]}` + "\n```"}}
	a := NewLLMAnalyzers(llm, LLMOptions{Retry: fastRetry}).Visa

	doc := &ai.Image{Data: []byte("%PDF-1.4"), MIMEType: "application/pdf"}
	out, err := a.Analyze(context.Background(), VisaInput{DestinationCountry: "VN", PassportCountry: "DE", Document: doc})
	require.NoError(t, err)

	assert.True(t, out.VisaRequired)
	assert.Equal(t, "eVisa", out.VisaType)
	assert.Equal(t, []string{"Apply online"}, out.NextSteps)

	require.Equal(t, 1, llm.calls())
	assert.Contains(t, llm.prompts[0], `"destination_country":"VN"`)
	assert.NotContains(t, llm.prompts[0], "PDF-1.4")
	assert.Same(t, doc, llm.images[0])
}

func TestLLMAnalyzer_CustomPrompt(t *testing.T) {
	llm := &stubLLM{replies: []string{`{"summary":"fine"}`}}
	a := NewLLMAnalyzers(llm, LLMOptions{Prompts: map[Track]string{TrackTrip: "CUSTOM TRIP PROMPT"}}).Trip

	_, err := a.Analyze(context.Background(), TripInput{PassportCountry: "BR", Stops: []TripStop{{Country: "FR", Purpose: "tourism"}}})
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "CUSTOM TRIP PROMPT")
	assert.Nil(t, llm.images[0])
}

func TestLLMAnalyzer_RetriesProviderErrors(t *testing.T) {
	transient := errors.New("429 too many requests")
	llm := &stubLLM{
		errs:    []error{transient, transient, nil},
		replies: []string{"", "", `{"is_scam":false,"risk_score":12}`},
	}
	a := NewLLMAnalyzers(llm, LLMOptions{Retry: fastRetry}).Scam

	out, err := a.Analyze(context.Background(), ScamInput{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 3, llm.calls())
	assert.Equal(t, 12.0, out.RiskScore)
}

func TestLLMAnalyzer_RetriesExhausted(t *testing.T) {
	down := errors.New("connection refused")
	llm := &stubLLM{errs: []error{down, down, down, down}}
	a := NewLLMAnalyzers(llm, LLMOptions{Retry: fastRetry}).Legal

	_, err := a.Analyze(context.Background(), LegalInput{Text: "lease"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindProviderUnavailable, e.Kind)
	assert.Equal(t, TrackLegal, e.Track)
	assert.ErrorIs(t, err, down)
	assert.Equal(t, 3, llm.calls())
}

func TestLLMAnalyzer_ParseFailureIsNotRetried(t *testing.T) {
	llm := &stubLLM{replies: []string{"I am not able to help with that."}}
	a := NewLLMAnalyzers(llm, LLMOptions{Retry: fastRetry}).Relationship

	_, err := a.Analyze(context.Background(), RelationshipInput{Text: "hey"})
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, 1, llm.calls())
}

func TestLLMAnalyzer_CancelledContextStopsRetrying(t *testing.T) {
	llm := &stubLLM{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	a := NewLLMAnalyzers(llm, LLMOptions{Retry: RetryPolicy{MaxAttempts: 3, Delay: time.Hour}}).SelfAnalysis

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Analyze(ctx, SelfAnalysisInput{Text: "journal"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, llm.calls())
}

func TestTruncate_KeepsValidUTF8(t *testing.T) {
	s := "Lừa đảo chuyển khoản"
	for n := 1; n < len(s); n++ {
		got := truncate(s, n)
		assert.True(t, utf8.ValidString(got), "n=%d gave %q", n, got)
	}
	assert.Equal(t, "abc", truncate("abc", 5))
}
