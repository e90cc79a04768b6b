package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"guardian/internal/ai"
	"guardian/internal/logger"
	"guardian/internal/metrics"
	"guardian/internal/parser"
)

var tracer = otel.Tracer("guardian/analysis")

// LLMOptions configures the model-backed analyzers.
type LLMOptions struct {
	// Prompts overrides the instruction per track. Missing tracks use the
	// built-in instruction.
	Prompts   map[Track]string
	Extractor parser.Extractor
	Retry     RetryPolicy
	Logger    *zap.Logger
}

type attachable interface {
	Attachment() *ai.Image
}

// outputPtr ties a record type T to its pointer, which implements AnalyzerOutput.
type outputPtr[T any] interface {
	*T
	AnalyzerOutput
}

type llmAnalyzer[In attachable, T any, PT outputPtr[T]] struct {
	track     Track
	client    ai.LanguageModelClient
	prompt    string
	extractor parser.Extractor
	retry     RetryPolicy
	logger    *zap.Logger
}

func newLLMAnalyzer[In attachable, T any, PT outputPtr[T]](track Track, client ai.LanguageModelClient, opts LLMOptions) *llmAnalyzer[In, T, PT] {
	prompt := opts.Prompts[track]
	if prompt == "" {
		prompt = analyzerPrompts[track]
	}
	ex := opts.Extractor
	if ex == nil {
		ex = parser.Lenient{}
	}
	return &llmAnalyzer[In, T, PT]{
		track:     track,
		client:    client,
		prompt:    prompt,
		extractor: ex,
		retry:     opts.Retry,
		logger:    logger.OrNop(opts.Logger).With(zap.String("track", string(track))),
	}
}

func (a *llmAnalyzer[In, T, PT]) Analyze(ctx context.Context, in In) (PT, error) {
	ctx, span := tracer.Start(ctx, "analysis.analyzer", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("track", string(a.track)))
	defer span.End()

	started := time.Now()
	defer func() {
		metrics.AnalyzerDuration.WithLabelValues(string(a.track)).Observe(time.Since(started).Seconds())
	}()

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, &Error{Kind: KindAnalysisFailed, Track: a.track, Detail: "encode analyzer input", Err: err}
	}
	prompt := fmt.Sprintf("%s\n\nInput:\n%s", a.prompt, payload)

	reply, err := callWithRetry(ctx, a.retry, a.logger, "analyze "+string(a.track), func(ctx context.Context) (string, error) {
		return a.client.Generate(ctx, prompt, in.Attachment())
	})
	if err != nil {
		metrics.AnalyzerCalls.WithLabelValues(string(a.track), metrics.OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider unavailable")
		return nil, &Error{Kind: KindProviderUnavailable, Track: a.track, Detail: "language model call failed", Err: err}
	}

	v, err := parser.Decode[T](a.extractor, reply)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			a.logger.Warn("analyzer reply not parseable", zap.String("reply", truncate(pe.Text, 500)))
		}
		metrics.AnalyzerCalls.WithLabelValues(string(a.track), metrics.OutcomeError).Inc()
		span.SetStatus(codes.Error, "unparseable reply")
		return nil, &Error{Kind: KindAnalysisFailed, Track: a.track, Detail: "model reply did not contain a valid result", Err: err}
	}

	metrics.AnalyzerCalls.WithLabelValues(string(a.track), metrics.OutcomeOK).Inc()
	return PT(&v), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
