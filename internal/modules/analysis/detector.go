package analysis

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"guardian/internal/ai"
	"guardian/internal/logger"
	"guardian/internal/metrics"
	"guardian/internal/parser"
)

const detectionFailedReasoning = "Failed to analyze document"

// Detector classifies raw input into a track of one family.
type Detector struct {
	client    ai.LanguageModelClient
	extractor parser.Extractor
	logger    *zap.Logger
}

func NewDetector(client ai.LanguageModelClient, extractor parser.Extractor, l *zap.Logger) *Detector {
	if extractor == nil {
		extractor = parser.Lenient{}
	}
	return &Detector{client: client, extractor: extractor, logger: logger.OrNop(l)}
}

type detectionReply struct {
	Track           string         `json:"track"`
	Confidence      *float64       `json:"confidence"`
	Reasoning       string         `json:"reasoning"`
	ExtractedText   string         `json:"extracted_text"`
	ExtractedFields map[string]any `json:"extracted_fields"`
}

// Detect never fails. Provider errors, unparseable replies and tracks outside
// the family all yield the unknown result with zero confidence.
func (d *Detector) Detect(ctx context.Context, f Family, in RawInput, contextText string) DetectionResult {
	ctx, span := tracer.Start(ctx, "analysis.detect")
	defer span.End()

	result := d.detect(ctx, f, in, contextText)
	span.SetAttributes(
		attribute.String("family", string(f)),
		attribute.String("track", string(result.Track)),
		attribute.Float64("confidence", result.Confidence),
	)
	metrics.Detections.WithLabelValues(string(f), string(result.Track)).Inc()
	return result
}

func (d *Detector) detect(ctx context.Context, f Family, in RawInput, contextText string) DetectionResult {
	prompt := detectionPrompt(f, contextText)
	if strings.TrimSpace(in.Text) != "" {
		prompt += "\n\nContent:\n" + in.Text
	}

	reply, err := d.client.Generate(ctx, prompt, in.attachment())
	if err != nil {
		d.logger.Warn("detection provider call failed", zap.String("family", string(f)), zap.Error(err))
		return failedDetection()
	}

	raw, err := parser.Decode[detectionReply](d.extractor, reply)
	if err != nil {
		d.logger.Warn("detection reply not parseable", zap.String("family", string(f)), zap.Error(err))
		return failedDetection()
	}

	track := Track(strings.ToLower(strings.TrimSpace(raw.Track)))
	if !f.accepts(track) {
		d.logger.Info("detected track outside family", zap.String("family", string(f)), zap.String("track", string(track)))
		return failedDetection()
	}

	return DetectionResult{
		Track:           track,
		Confidence:      clampConfidence(raw.Confidence),
		Reasoning:       raw.Reasoning,
		ExtractedText:   raw.ExtractedText,
		ExtractedFields: raw.ExtractedFields,
	}
}

func failedDetection() DetectionResult {
	return DetectionResult{Track: TrackUnknown, Confidence: 0, Reasoning: detectionFailedReasoning}
}

func clampConfidence(c *float64) float64 {
	switch {
	case c == nil:
		return 0
	case *c < 0:
		return 0
	case *c > 1:
		return 1
	default:
		return *c
	}
}
