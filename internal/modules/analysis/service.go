// README: Analysis pipeline entry points: validate, detect, route, synthesize, record.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"guardian/internal/logger"
)

// Record is the serializable outcome of one analysis.
type Record struct {
	ID        string
	Family    Family
	Detection DetectionResult
	Report    SynthesizedReport
	CreatedAt time.Time
}

// Recorder persists finished analyses. The pipeline never reads them back.
type Recorder interface {
	Save(ctx context.Context, rec Record) error
}

type Service struct {
	detector *Detector
	router   *Router
	recorder Recorder
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

type ServiceOptions struct {
	// Recorder is optional.
	Recorder Recorder
	// Timeout bounds the whole pipeline of one request. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewService(detector *Detector, router *Router, opts ServiceOptions) *Service {
	return &Service{
		detector: detector,
		router:   router,
		recorder: opts.Recorder,
		timeout:  opts.Timeout,
		logger:   logger.OrNop(opts.Logger),
		now:      time.Now,
	}
}

// AnalyzeRequest runs the personal-safety pipeline.
func (s *Service) AnalyzeRequest(ctx context.Context, in RawInput) (*SynthesizedReport, error) {
	res, err := s.run(ctx, FamilyPersonal, in)
	if err != nil {
		return nil, err
	}
	return &res.Report, nil
}

// AnalyzeDocument runs the business-document pipeline and also returns the
// detection so callers can show why a track was chosen.
func (s *Service) AnalyzeDocument(ctx context.Context, in RawInput) (*DocumentAnalysis, error) {
	return s.run(ctx, FamilyBusiness, in)
}

func (s *Service) run(ctx context.Context, f Family, in RawInput) (*DocumentAnalysis, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	id := uuid.NewString()
	log := s.logger.With(zap.String("analysis_id", id), zap.String("family", string(f)))

	detection := s.detector.Detect(ctx, f, in, in.Context)
	log.Debug("detected",
		zap.String("track", string(detection.Track)),
		zap.Float64("confidence", detection.Confidence))

	report, err := s.router.Route(ctx, f, detection, in)
	if err != nil {
		e := AsError(err)
		log.Warn("analysis failed", zap.String("kind", string(e.Kind)), zap.String("track", string(e.Track)), zap.Error(err))
		return nil, e
	}
	report.ID = id

	if s.recorder != nil {
		rec := Record{ID: id, Family: f, Detection: detection, Report: report, CreatedAt: s.now().UTC()}
		if err := s.recorder.Save(ctx, rec); err != nil {
			log.Warn("failed to record analysis", zap.Error(err))
		}
	}
	return &DocumentAnalysis{Detection: detection, Report: report}, nil
}
