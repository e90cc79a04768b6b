package maps

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"guardian/internal/logger"
	"guardian/internal/metrics"
	"guardian/internal/modules/itinerary"
	"guardian/internal/types"
)

const maxPhotos = 3

// Options tune the Places client. Zero values fall back to English results
// without a region bias.
type Options struct {
	Language string
	Region   string
	BaseURL  string
	Logger   *zap.Logger
}

// PlacesService resolves itinerary activities against the Google Places API.
// It implements itinerary.PlaceProvider.
type PlacesService struct {
	client   *maps.Client
	language string
	region   string
	logger   *zap.Logger
}

var _ itinerary.PlaceProvider = (*PlacesService)(nil)

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string, opts Options) (*PlacesService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("maps api key is empty")
	}
	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	return &PlacesService{
		client:   client,
		language: lang,
		region:   opts.Region,
		logger:   logger.OrNop(opts.Logger),
	}, nil
}

// FindPlace runs a text search and returns the best match. The region hint,
// usually the trip destination, is folded into the query.
func (s *PlacesService) FindPlace(ctx context.Context, query, regionHint string) (*itinerary.PlaceCandidate, error) {
	r := &maps.TextSearchRequest{
		Query:    searchQuery(query, regionHint),
		Language: s.language,
		Region:   s.region,
	}

	start := time.Now()
	resp, err := s.client.TextSearch(ctx, r)
	metrics.PlaceAPILatency.WithLabelValues("find").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, itinerary.ErrNotFound
	}

	best := resp.Results[0]
	s.logger.Debug("place found",
		zap.String("query", r.Query),
		zap.String("place_id", best.PlaceID),
		zap.Int("candidates", len(resp.Results)))

	return &itinerary.PlaceCandidate{
		PlaceID:     best.PlaceID,
		Name:        best.Name,
		Coordinates: coordinates(best.Geometry),
	}, nil
}

// GetDetails fetches the full record for a place id.
func (s *PlacesService) GetDetails(ctx context.Context, placeID string) (*itinerary.PlaceRecord, error) {
	r := &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: s.language,
	}

	start := time.Now()
	res, err := s.client.PlaceDetails(ctx, r)
	metrics.PlaceAPILatency.WithLabelValues("details").Observe(time.Since(start).Seconds())
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") {
			return nil, itinerary.ErrNotFound
		}
		return nil, fmt.Errorf("places details %s: %w", placeID, err)
	}
	return toRecord(res), nil
}

// Photo streams a place photo. The caller closes the returned reader.
func (s *PlacesService) Photo(ctx context.Context, ref string, maxWidth uint) (string, io.ReadCloser, error) {
	start := time.Now()
	resp, err := s.client.PlacePhoto(ctx, &maps.PlacePhotoRequest{PhotoReference: ref, MaxWidth: maxWidth})
	metrics.PlaceAPILatency.WithLabelValues("photo").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", nil, fmt.Errorf("places photo: %w", err)
	}
	return resp.ContentType, resp.Data, nil
}

func searchQuery(query, regionHint string) string {
	query = strings.TrimSpace(query)
	regionHint = strings.TrimSpace(regionHint)
	if regionHint == "" || strings.Contains(strings.ToLower(query), strings.ToLower(regionHint)) {
		return query
	}
	return query + ", " + regionHint
}

// coordinates returns nil when the response carried no geometry at all.
// Places always sends a viewport with a location, so a real (0,0) is kept.
func coordinates(g maps.AddressGeometry) *types.LatLng {
	if g.Location == (maps.LatLng{}) && g.Viewport == (maps.LatLngBounds{}) && g.LocationType == "" {
		return nil
	}
	return &types.LatLng{Lat: g.Location.Lat, Lng: g.Location.Lng}
}

func toRecord(res maps.PlaceDetailsResult) *itinerary.PlaceRecord {
	rec := &itinerary.PlaceRecord{
		PlaceID:         res.PlaceID,
		Name:            res.Name,
		Coordinates:     coordinates(res.Geometry),
		Rating:          float64(res.Rating),
		UserRatingCount: res.UserRatingsTotal,
		PriceLevel:      res.PriceLevel,
		Website:         res.Website,
		Phone:           res.InternationalPhoneNumber,
		MapsURL:         res.URL,
		TopReview:       topReview(res.Reviews),
	}
	if rec.Phone == "" {
		rec.Phone = res.FormattedPhoneNumber
	}
	if res.OpeningHours != nil {
		rec.OpeningHours = append([]string(nil), res.OpeningHours.WeekdayText...)
	}
	for _, p := range res.Photos {
		if len(rec.PhotoURLs) == maxPhotos {
			break
		}
		if p.PhotoReference == "" {
			continue
		}
		rec.PhotoURLs = append(rec.PhotoURLs, itinerary.PhotoURL(p.PhotoReference))
	}
	return rec
}

// topReview picks the highest rated review, preferring longer text on ties.
func topReview(reviews []maps.PlaceReview) *itinerary.Review {
	var best *maps.PlaceReview
	for i := range reviews {
		r := &reviews[i]
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if best == nil || r.Rating > best.Rating || (r.Rating == best.Rating && len(r.Text) > len(best.Text)) {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return &itinerary.Review{Author: best.AuthorName, Rating: best.Rating, Text: best.Text}
}
