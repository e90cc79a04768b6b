package itinerary

import (
	"context"
	"errors"

	"guardian/internal/types"
)

// ErrNotFound is returned by a PlaceProvider when nothing matches.
var ErrNotFound = errors.New("place not found")

// PlaceCandidate is the search hit for a free-text query.
type PlaceCandidate struct {
	PlaceID     string
	Name        string
	Coordinates *types.LatLng
}

// PlaceProvider resolves queries to places and places to metadata.
type PlaceProvider interface {
	FindPlace(ctx context.Context, query, region string) (*PlaceCandidate, error)
	GetDetails(ctx context.Context, placeID string) (*PlaceRecord, error)
}
