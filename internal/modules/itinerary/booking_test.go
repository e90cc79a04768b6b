package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingLink(t *testing.T) {
	hotel := &PlaceRecord{PlaceID: "h1", Name: "Hotel Lutetia"}
	withSite := &PlaceRecord{PlaceID: "r1", Name: "Chez Janou", Website: "https://chezjanou.com", MapsURL: "https://maps.google.com/?cid=1"}
	noSite := &PlaceRecord{PlaceID: "r2", Name: "Bistrot", MapsURL: "https://maps.google.com/?cid=2"}

	tests := []struct {
		name      string
		typ       ActivityType
		place     *PlaceRecord
		act       Activity
		wantLink  string
		wantLabel string
	}{
		{"hotel", TypeHotel, hotel, Activity{Title: "Check in"}, "https://www.booking.com/searchresults.html?ss=Hotel+Lutetia", "Book stay"},
		{"hotel unresolved uses location", TypeHotel, nil, Activity{Title: "Check in", Location: "Le Marais"}, "https://www.booking.com/searchresults.html?ss=Le+Marais", "Book stay"},
		{"restaurant website", TypeRestaurant, withSite, Activity{}, "https://chezjanou.com", "Reserve table"},
		{"restaurant maps fallback", TypeRestaurant, noSite, Activity{}, "https://maps.google.com/?cid=2", "View on map"},
		{"attraction", TypeAttraction, &PlaceRecord{Name: "Eiffel Tower"}, Activity{}, "https://www.getyourguide.com/s/?q=Eiffel+Tower", "Find tours"},
		{"flight", TypeFlight, nil, Activity{Title: "CDG to FCO"}, "https://www.google.com/travel/flights", "Search flights"},
		{"transport", TypeTransport, nil, Activity{Title: "Metro", Location: "Gare du Nord"}, "https://www.google.com/maps/dir/?api=1&destination=Gare+du+Nord", "Get directions"},
		{"other with place id", TypeOther, &PlaceRecord{PlaceID: "p9", Name: "Park"}, Activity{}, "https://www.google.com/maps/search/?api=1&query=Park&query_place_id=p9", "View on map"},
		{"unknown type", ActivityType("spa"), nil, Activity{Title: "Hammam"}, "https://www.google.com/maps/search/?api=1&query=Hammam", "View on map"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			link, label := BookingLink(tc.typ, tc.place, tc.act)
			assert.Equal(t, tc.wantLink, link)
			assert.Equal(t, tc.wantLabel, label)
		})
	}
}
