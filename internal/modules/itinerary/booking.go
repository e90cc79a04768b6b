package itinerary

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	bookingSearchURL = "https://www.booking.com/searchresults.html?ss="
	tourSearchURL    = "https://www.getyourguide.com/s/?q="
	flightSearchURL  = "https://www.google.com/travel/flights"
	mapsDirections   = "https://www.google.com/maps/dir/?api=1&destination="
	mapsSearch       = "https://www.google.com/maps/search/?api=1&query="
)

// BookingLink derives the call-to-action URL and its label for an activity.
// place may be nil.
func BookingLink(t ActivityType, place *PlaceRecord, a Activity) (link, label string) {
	name := displayName(place, a)

	switch t.Normalize() {
	case TypeHotel:
		return bookingSearchURL + url.QueryEscape(name), "Book stay"
	case TypeRestaurant:
		if place != nil && place.Website != "" {
			return place.Website, "Reserve table"
		}
		return mapsLink(place, name), "View on map"
	case TypeAttraction:
		return tourSearchURL + url.QueryEscape(name), "Find tours"
	case TypeFlight:
		return flightSearchURL, "Search flights"
	case TypeTransport:
		return mapsDirections + url.QueryEscape(firstNonEmpty(a.Location, a.Title)), "Get directions"
	default:
		return mapsLink(place, name), "View on map"
	}
}

func mapsLink(place *PlaceRecord, name string) string {
	if place != nil && place.MapsURL != "" {
		return place.MapsURL
	}
	link := mapsSearch + url.QueryEscape(name)
	if place != nil && place.PlaceID != "" {
		link += "&query_place_id=" + url.QueryEscape(place.PlaceID)
	}
	return link
}

func displayName(place *PlaceRecord, a Activity) string {
	if place != nil && strings.TrimSpace(place.Name) != "" {
		return place.Name
	}
	return firstNonEmpty(a.Location, a.Title)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

const (
	// PhotoPath serves place photos by reference through the API.
	PhotoPath     = "/api/places/photo"
	PhotoMaxWidth = 800
)

// PhotoURL is the server-relative link to a place photo.
func PhotoURL(ref string) string {
	q := url.Values{}
	q.Set("ref", ref)
	q.Set("maxwidth", strconv.Itoa(PhotoMaxWidth))
	return PhotoPath + "?" + q.Encode()
}
