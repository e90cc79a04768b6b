package itinerary

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"guardian/internal/types"
)

// fakeProvider resolves "<name>" queries to id "id-<name>" unless configured
// otherwise, and tracks concurrent calls.
type fakeProvider struct {
	delay func(query string) time.Duration

	mu          sync.Mutex
	findErr     map[string]error
	detailsErr  map[string][]error
	findCalls   []string
	detailCalls []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{findErr: map[string]error{}, detailsErr: map[string][]error{}}
}

func (f *fakeProvider) enter() func() {
	n := f.inFlight.Add(1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeProvider) FindPlace(ctx context.Context, query, _ string) (*PlaceCandidate, error) {
	defer f.enter()()
	f.mu.Lock()
	f.findCalls = append(f.findCalls, query)
	err := f.findErr[query]
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(query)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &PlaceCandidate{PlaceID: "id-" + query, Name: query}, nil
}

func (f *fakeProvider) GetDetails(ctx context.Context, placeID string) (*PlaceRecord, error) {
	defer f.enter()()
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, placeID)
	var err error
	if errs := f.detailsErr[placeID]; len(errs) > 0 {
		err = errs[0]
		f.detailsErr[placeID] = errs[1:]
	}
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return &PlaceRecord{
		PlaceID:     placeID,
		Name:        placeID[len("id-"):],
		Coordinates: &types.LatLng{Lat: 48.8584, Lng: 2.2945},
		Rating:      4.6,
		MapsURL:     "https://maps.google.com/?cid=" + placeID,
	}, nil
}

func (f *fakeProvider) findCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.findCalls)
}

func (f *fakeProvider) detailCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.detailCalls)
}
