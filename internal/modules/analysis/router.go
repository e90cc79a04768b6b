package analysis

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"guardian/internal/logger"
	"guardian/internal/metrics"
)

// DefaultConfidenceThreshold is the lowest confidence that still routes.
const DefaultConfidenceThreshold = 0.3

// Router dispatches a detection to the one analyzer bound to its track.
type Router struct {
	analyzers Analyzers
	synth     Synthesizer
	threshold float64
	logger    *zap.Logger
}

type RouterOptions struct {
	// Threshold defaults to DefaultConfidenceThreshold when zero.
	Threshold   float64
	Synthesizer Synthesizer
	Logger      *zap.Logger
}

func NewRouter(analyzers Analyzers, opts RouterOptions) *Router {
	th := opts.Threshold
	if th <= 0 {
		th = DefaultConfidenceThreshold
	}
	return &Router{
		analyzers: analyzers,
		synth:     opts.Synthesizer,
		threshold: th,
		logger:    logger.OrNop(opts.Logger),
	}
}

// Route returns the fallback report for unknown or low-confidence detections
// without calling any analyzer. Otherwise exactly one analyzer runs and its
// output is synthesized.
func (r *Router) Route(ctx context.Context, f Family, d DetectionResult, in RawInput) (SynthesizedReport, error) {
	ctx, span := tracer.Start(ctx, "analysis.route")
	span.SetAttributes(attribute.String("track", string(d.Track)), attribute.Float64("confidence", d.Confidence))
	defer span.End()

	if d.Track == TrackUnknown || d.Confidence < r.threshold {
		r.logger.Info("detection below routing gate",
			zap.String("family", string(f)),
			zap.String("track", string(d.Track)),
			zap.Float64("confidence", d.Confidence),
			zap.Float64("threshold", r.threshold))
		metrics.FallbackReports.WithLabelValues(string(f)).Inc()
		return r.synth.Fallback(f, d), nil
	}

	if !f.Contains(d.Track) {
		err := unhandledTrack(f, d.Track)
		span.SetStatus(codes.Error, err.Error())
		return SynthesizedReport{}, err
	}

	out, err := r.dispatch(ctx, f, d, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analyzer failed")
		return SynthesizedReport{}, err
	}
	return r.synth.Synthesize(out), nil
}

func (r *Router) dispatch(ctx context.Context, f Family, d DetectionResult, in RawInput) (AnalyzerOutput, error) {
	switch d.Track {
	case TrackRelationship:
		return invoke(ctx, f, d, in, r.analyzers.Relationship, buildRelationshipInput)
	case TrackScam:
		return invoke(ctx, f, d, in, r.analyzers.Scam, buildScamInput)
	case TrackSelfAnalysis:
		return invoke(ctx, f, d, in, r.analyzers.SelfAnalysis, buildSelfAnalysisInput)
	case TrackVisa:
		return invoke(ctx, f, d, in, r.analyzers.Visa, buildVisaInput)
	case TrackLegal:
		return invoke(ctx, f, d, in, r.analyzers.Legal, buildLegalInput)
	case TrackScamDocument:
		return invoke(ctx, f, d, in, r.analyzers.ScamDocument, buildScamDocumentInput)
	case TrackTrip:
		return invoke(ctx, f, d, in, r.analyzers.Trip, buildTripInput)
	default:
		return nil, unhandledTrack(f, d.Track)
	}
}

func invoke[In any, Out AnalyzerOutput](
	ctx context.Context,
	f Family,
	d DetectionResult,
	raw RawInput,
	a Analyzer[In, Out],
	build func(DetectionResult, RawInput) (In, error),
) (AnalyzerOutput, error) {
	if a == nil {
		return nil, unhandledTrack(f, d.Track)
	}
	in, err := build(d, raw)
	if err != nil {
		return nil, err
	}
	out, err := a.Analyze(ctx, in)
	if err != nil {
		e := *AsError(err)
		if e.Track == "" {
			e.Track = d.Track
		}
		return nil, &e
	}
	if isNilOutput(out) {
		return nil, &Error{Kind: KindAnalysisFailed, Track: d.Track, Detail: "analyzer returned no result"}
	}
	return out, nil
}
