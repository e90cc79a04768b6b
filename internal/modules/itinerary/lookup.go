package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"guardian/internal/metrics"
)

var tracer = otel.Tracer("guardian/itinerary")

// Lookup resolves a query to a PlaceRecord. Searches always hit the provider;
// details are served from the cache when present. Failures are never cached.
type Lookup struct {
	provider PlaceProvider
	cache    PlaceCache
}

func NewLookup(provider PlaceProvider, cache PlaceCache) *Lookup {
	if cache == nil {
		cache = NewMemoryCache(0)
	}
	return &Lookup{provider: provider, cache: cache}
}

func (l *Lookup) Lookup(ctx context.Context, query, regionHint string) (*PlaceRecord, error) {
	ctx, span := tracer.Start(ctx, "itinerary.lookup", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("query", query))
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	cand, err := l.provider.FindPlace(ctx, query, regionHint)
	if err != nil {
		recordProviderCall("find", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("find %q: %w", query, err)
	}
	recordProviderCall("find", nil)
	if cand == nil || cand.PlaceID == "" {
		return nil, ErrNotFound
	}
	span.SetAttributes(attribute.String("place_id", cand.PlaceID))

	if rec, ok := l.cache.Get(ctx, cand.PlaceID); ok {
		metrics.PlaceCacheLookups.WithLabelValues(metrics.OutcomeHit).Inc()
		return rec, nil
	}
	metrics.PlaceCacheLookups.WithLabelValues(metrics.OutcomeMiss).Inc()

	rec, err := l.provider.GetDetails(ctx, cand.PlaceID)
	if err != nil {
		recordProviderCall("details", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "details failed")
		return nil, fmt.Errorf("details %s: %w", cand.PlaceID, err)
	}
	recordProviderCall("details", nil)
	if rec == nil {
		return nil, ErrNotFound
	}
	if rec.PlaceID == "" {
		rec.PlaceID = cand.PlaceID
	}
	if rec.Coordinates == nil {
		rec.Coordinates = cand.Coordinates
	}
	l.cache.Set(ctx, rec)
	return rec, nil
}

func recordProviderCall(op string, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeMiss
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.PlaceProviderCalls.WithLabelValues(op, outcome).Inc()
}
