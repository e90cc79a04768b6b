package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memoryRecorder struct {
	mu      sync.Mutex
	records []Record
	err     error
}

func (m *memoryRecorder) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

func newTestService(t *testing.T, llm *stubLLM, rec Recorder) *Service {
	t.Helper()
	l := zaptest.NewLogger(t)
	analyzers := NewLLMAnalyzers(llm, LLMOptions{Retry: RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}, Logger: l})
	return NewService(
		NewDetector(llm, nil, l),
		NewRouter(analyzers, RouterOptions{Logger: l}),
		ServiceOptions{Recorder: rec, Timeout: 5 * time.Second, Logger: l},
	)
}

func TestService_RejectsEmptyInput(t *testing.T) {
	llm := &stubLLM{}
	svc := newTestService(t, llm, nil)

	_, err := svc.AnalyzeRequest(context.Background(), RawInput{Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AnalyzeDocument(context.Background(), RawInput{ImageBytes: []byte("plain text bytes"), ImageMIMEType: "text/plain"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, llm.calls())
}

func TestService_AnalyzeDocumentTrip(t *testing.T) {
	llm := &stubLLM{replies: []string{
		`{"track":"trip","confidence":0.9,"reasoning":"itinerary","extracted_fields":{"passport_country":"US","stops":[{"country":"FR"},{"country":"IT","days":"4"}]}}`,
		`{"summary":"Schengen covers both","stops":[{"country":"FR","visa_required":false},{"country":"IT","visa_required":false}],"checklist":["Carry proof of onward travel"]}`,
	}}
	rec := &memoryRecorder{}
	svc := newTestService(t, llm, rec)

	res, err := svc.AnalyzeDocument(context.Background(), RawInput{Text: "Paris 3 days then Rome 4 days"})
	require.NoError(t, err)

	assert.Equal(t, TrackTrip, res.Detection.Track)
	assert.Equal(t, "Trip plan: 2 stops, 0 need a visa", res.Report.Headline)
	assert.Equal(t, []string{"Carry proof of onward travel"}, res.Report.ActionItems)
	assert.NotEmpty(t, res.Report.ID)

	require.Equal(t, 2, llm.calls())
	assert.Contains(t, llm.prompts[1], `{"country":"FR","purpose":"tourism"}`)
	assert.Contains(t, llm.prompts[1], `{"country":"IT","purpose":"tourism","days":4}`)

	require.Len(t, rec.records, 1)
	assert.Equal(t, res.Report.ID, rec.records[0].ID)
	assert.Equal(t, FamilyBusiness, rec.records[0].Family)
}

func TestService_AnalyzeRequestFallback(t *testing.T) {
	llm := &stubLLM{replies: []string{`{"track":"relationship","confidence":0.2}`}}
	svc := newTestService(t, llm, nil)

	report, err := svc.AnalyzeRequest(context.Background(), RawInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "We could not classify this content", report.Headline)
	assert.Equal(t, 1, llm.calls())
}

func TestService_AnalyzerFailureIsTyped(t *testing.T) {
	down := errors.New("upstream 500")
	llm := &stubLLM{
		replies: []string{`{"track":"scam","confidence":0.95}`},
		errs:    []error{nil, down, down},
	}
	svc := newTestService(t, llm, nil)

	_, err := svc.AnalyzeRequest(context.Background(), RawInput{Text: "send me the code"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindProviderUnavailable, e.Kind)
	assert.Equal(t, TrackScam, e.Track)
	assert.Equal(t, 3, llm.calls())
}

func TestService_RecorderFailureDoesNotFailRequest(t *testing.T) {
	llm := &stubLLM{replies: []string{
		`{"track":"legal","confidence":0.8}`,
		`{"document_type":"lease","summary":"12 month lease"}`,
	}}
	svc := newTestService(t, llm, &memoryRecorder{err: errors.New("db down")})

	res, err := svc.AnalyzeDocument(context.Background(), RawInput{Text: "lease agreement"})
	require.NoError(t, err)
	assert.Equal(t, "Legal review: lease", res.Report.Headline)
}
