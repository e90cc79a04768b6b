// README: Analysis tracks and the request families that own them.
package analysis

// Track is the closed category an input is classified into.
type Track string

const (
	TrackRelationship Track = "relationship"
	TrackScam         Track = "scam"
	TrackSelfAnalysis Track = "self_analysis"

	TrackVisa         Track = "visa"
	TrackLegal        Track = "legal"
	TrackScamDocument Track = "scam_document"
	TrackTrip         Track = "trip"

	TrackUnknown Track = "unknown"
)

// Family is chosen by the API surface that received the request. Tracks from
// different families never mix within one request.
type Family string

const (
	FamilyPersonal Family = "personal_safety"
	FamilyBusiness Family = "business_document"
)

var familyTracks = map[Family][]Track{
	FamilyPersonal: {TrackRelationship, TrackScam, TrackSelfAnalysis},
	FamilyBusiness: {TrackVisa, TrackLegal, TrackScamDocument, TrackTrip},
}

var trackLabels = map[Track]string{
	TrackRelationship: "Relationship check",
	TrackScam:         "Scam message check",
	TrackSelfAnalysis: "Self reflection",
	TrackVisa:         "Visa document",
	TrackLegal:        "Legal document",
	TrackScamDocument: "Suspicious document",
	TrackTrip:         "Trip visa planning",
	TrackUnknown:      "Unclassified",
}

var trackHints = map[Track]string{
	TrackRelationship: "screenshots or descriptions of conversations with a partner or date",
	TrackScam:         "messages, emails or texts asking for money, codes or personal details",
	TrackSelfAnalysis: "your own writing or messages you want feedback on",
	TrackVisa:         "visa applications, passports, invitation letters or entry permits",
	TrackLegal:        "contracts, leases, terms of service or official notices",
	TrackScamDocument: "invoices, letters or certificates whose sender you doubt",
	TrackTrip:         "a multi-country travel plan with passport nationality",
}

// Tracks returns the routable tracks of f. unknown is never included.
func (f Family) Tracks() []Track {
	out := make([]Track, len(familyTracks[f]))
	copy(out, familyTracks[f])
	return out
}

func (f Family) Valid() bool {
	_, ok := familyTracks[f]
	return ok
}

// Contains reports whether t is a routable track of f.
func (f Family) Contains(t Track) bool {
	for _, candidate := range familyTracks[f] {
		if candidate == t {
			return true
		}
	}
	return false
}

// accepts reports whether a detector may return t for f. The business family
// lists unknown as an explicit answer; the personal family does not.
func (f Family) accepts(t Track) bool {
	return f.Contains(t) || (f == FamilyBusiness && t == TrackUnknown)
}

// Label is the human display name of t.
func (t Track) Label() string {
	if l, ok := trackLabels[t]; ok {
		return l
	}
	return string(t)
}
