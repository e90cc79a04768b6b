// README: Itinerary payloads and their place-enriched counterparts.
package itinerary

import "guardian/internal/types"

type ActivityType string

const (
	TypeFlight     ActivityType = "flight"
	TypeHotel      ActivityType = "hotel"
	TypeRestaurant ActivityType = "restaurant"
	TypeAttraction ActivityType = "attraction"
	TypeTransport  ActivityType = "transport"
	TypeOther      ActivityType = "other"
)

// Normalize maps unrecognised types to other.
func (t ActivityType) Normalize() ActivityType {
	switch t {
	case TypeFlight, TypeHotel, TypeRestaurant, TypeAttraction, TypeTransport:
		return t
	default:
		return TypeOther
	}
}

// skipsLookup reports types that are never resolved to a place.
func (t ActivityType) skipsLookup() bool {
	return t == TypeFlight || t == TypeTransport
}

type Activity struct {
	Time        string       `json:"time,omitempty"`
	Title       string       `json:"title"`
	Type        ActivityType `json:"type"`
	Location    string       `json:"location,omitempty"`
	Description string       `json:"description,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Price       string       `json:"price,omitempty"`
	Tips        string       `json:"tips,omitempty"`
}

type Day struct {
	DayNumber  int        `json:"day_number"`
	Title      string     `json:"title,omitempty"`
	Date       string     `json:"date,omitempty"`
	Activities []Activity `json:"activities"`
}

// Payload is the itinerary object embedded in assistant replies.
type Payload struct {
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Days        []Day  `json:"days"`
}

type Review struct {
	Author string  `json:"author,omitempty"`
	Rating int     `json:"rating,omitempty"`
	Text   string  `json:"text"`
}

// PlaceRecord is provider metadata for one place id. Records are cached and
// shared, so they must be treated as read-only.
type PlaceRecord struct {
	PlaceID         string        `json:"place_id"`
	Name            string        `json:"name"`
	Coordinates     *types.LatLng `json:"coordinates,omitempty"`
	Rating          float64       `json:"rating,omitempty"`
	UserRatingCount int           `json:"user_rating_count,omitempty"`
	PriceLevel      int           `json:"price_level,omitempty"`
	PhotoURLs       []string      `json:"photo_urls,omitempty"`
	OpeningHours    []string      `json:"opening_hours,omitempty"`
	Website         string        `json:"website,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	MapsURL         string        `json:"maps_url,omitempty"`
	TopReview       *Review       `json:"top_review,omitempty"`
}

// EnrichedActivity is an Activity plus whatever the provider could resolve.
// Coordinates is nil when the activity was not resolved.
type EnrichedActivity struct {
	Activity
	Resolved    bool          `json:"resolved"`
	Coordinates *types.LatLng `json:"coordinates"`
	Place       *PlaceRecord  `json:"place,omitempty"`
	BookingURL  string        `json:"booking_url"`
	ActionLabel string        `json:"action_label"`
}

type EnrichedDay struct {
	DayNumber     int                `json:"day_number"`
	Title         string             `json:"title,omitempty"`
	Date          string             `json:"date,omitempty"`
	Activities    []EnrichedActivity `json:"activities"`
	ResolvedCount int                `json:"resolved_count"`
	// SpanKm is the straight-line path through the resolved activities in
	// order, rounded to 0.1 km.
	SpanKm float64 `json:"span_km"`
}

type EnrichedItinerary struct {
	Title       string        `json:"title,omitempty"`
	Destination string        `json:"destination,omitempty"`
	StartDate   string        `json:"start_date,omitempty"`
	EndDate     string        `json:"end_date,omitempty"`
	Days        []EnrichedDay `json:"days"`
}
