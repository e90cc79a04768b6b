package itinerary

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"guardian/internal/logger"
	"guardian/internal/metrics"
	"guardian/internal/types"
)

const (
	DefaultBatchSize  = 3
	DefaultBatchPause = 200 * time.Millisecond
)

// Resolver is satisfied by *Lookup.
type Resolver interface {
	Lookup(ctx context.Context, query, regionHint string) (*PlaceRecord, error)
}

type EnricherOptions struct {
	// BatchSize caps concurrent lookups. Defaults to DefaultBatchSize.
	BatchSize int
	// BatchPause is slept between chunks. Negative disables the pause.
	BatchPause time.Duration
	// CallTimeout bounds each lookup. Zero means no per-call deadline.
	CallTimeout time.Duration
	Logger      *zap.Logger
}

// Enricher resolves activities to places in fixed-size chunks. It is safe
// for concurrent use by different itineraries.
type Enricher struct {
	resolver    Resolver
	batchSize   int
	batchPause  time.Duration
	callTimeout time.Duration
	logger      *zap.Logger
}

func NewEnricher(resolver Resolver, opts EnricherOptions) *Enricher {
	size := opts.BatchSize
	if size < 1 {
		size = DefaultBatchSize
	}
	pause := opts.BatchPause
	switch {
	case pause == 0:
		pause = DefaultBatchPause
	case pause < 0:
		pause = 0
	}
	return &Enricher{
		resolver:    resolver,
		batchSize:   size,
		batchPause:  pause,
		callTimeout: opts.CallTimeout,
		logger:      logger.OrNop(opts.Logger),
	}
}

// Enrich returns one EnrichedActivity per input, in input order. A failed
// lookup leaves that activity unresolved and never affects the others.
func (e *Enricher) Enrich(ctx context.Context, destination string, activities []Activity) []EnrichedActivity {
	out := make([]EnrichedActivity, len(activities))

	for start := 0; start < len(activities); start += e.batchSize {
		if start > 0 && !e.pause(ctx) {
			// Cancelled: the remaining activities pass through unresolved.
			for i := start; i < len(activities); i++ {
				out[i] = unresolved(activities[i])
			}
			break
		}

		end := min(start+e.batchSize, len(activities))
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				out[i] = e.enrichOne(ctx, destination, activities[i])
				return nil
			})
		}
		_ = g.Wait()
	}
	return out
}

// EnrichDays enriches each day in order. Days run one after another so the
// concurrency bound holds for the whole itinerary.
func (e *Enricher) EnrichDays(ctx context.Context, destination string, days []Day) []EnrichedDay {
	out := make([]EnrichedDay, 0, len(days))
	for _, d := range days {
		acts := e.Enrich(ctx, destination, d.Activities)
		resolved := 0
		points := make([]*types.LatLng, len(acts))
		for i, a := range acts {
			if a.Resolved {
				resolved++
			}
			points[i] = a.Coordinates
		}
		out = append(out, EnrichedDay{
			DayNumber:     d.DayNumber,
			Title:         d.Title,
			Date:          d.Date,
			Activities:    acts,
			ResolvedCount: resolved,
			SpanKm:        math.Round(types.PathKm(points)*10) / 10,
		})
	}
	return out
}

// EnrichPayload enriches a decoded itinerary using its own destination.
func (e *Enricher) EnrichPayload(ctx context.Context, p *Payload) *EnrichedItinerary {
	return &EnrichedItinerary{
		Title:       p.Title,
		Destination: p.Destination,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Days:        e.EnrichDays(ctx, p.Destination, p.Days),
	}
}

func (e *Enricher) enrichOne(ctx context.Context, destination string, a Activity) EnrichedActivity {
	a.Type = a.Type.Normalize()
	query := firstNonEmpty(a.Location, a.Title)
	if a.Type.skipsLookup() || query == "" {
		return unresolved(a)
	}

	metrics.EnrichInFlight.Inc()
	defer metrics.EnrichInFlight.Dec()

	callCtx := ctx
	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}

	place, err := e.resolver.Lookup(callCtx, query, destination)
	if err != nil || place == nil {
		e.logger.Debug("activity left unresolved",
			zap.String("title", a.Title),
			zap.String("query", query),
			zap.Error(err))
		return unresolved(a)
	}

	link, label := BookingLink(a.Type, place, a)
	return EnrichedActivity{
		Activity:    a,
		Resolved:    place.Coordinates != nil,
		Coordinates: place.Coordinates,
		Place:       place,
		BookingURL:  link,
		ActionLabel: label,
	}
}

func (e *Enricher) pause(ctx context.Context) bool {
	if e.batchPause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(e.batchPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func unresolved(a Activity) EnrichedActivity {
	a.Type = a.Type.Normalize()
	link, label := BookingLink(a.Type, nil, a)
	return EnrichedActivity{Activity: a, BookingURL: link, ActionLabel: label}
}
