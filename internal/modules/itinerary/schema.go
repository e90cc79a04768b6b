package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrNoItinerary means the text carries no decodable itinerary object.
	ErrNoItinerary = errors.New("no itinerary found")
	// ErrInvalidItinerary means an object was found but breaks the contract.
	ErrInvalidItinerary = errors.New("invalid itinerary")
)

const payloadSchema = `{
  "type": "object",
  "required": ["type", "days"],
  "properties": {
    "type": {"enum": ["itinerary"]},
    "title": {"type": "string"},
    "destination": {"type": "string"},
    "start_date": {"type": "string"},
    "end_date": {"type": "string"},
    "days": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["activities"],
        "properties": {
          "day_number": {"type": "integer"},
          "title": {"type": "string"},
          "date": {"type": "string"},
          "activities": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title"],
              "properties": {
                "time": {"type": "string"},
                "title": {"type": "string", "minLength": 1},
                "type": {"type": "string"},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "duration": {"type": "string"},
                "price": {"type": ["string", "number"]},
                "tips": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

// ValidatePayload checks raw JSON against the itinerary contract.
func ValidatePayload(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItinerary, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidItinerary, strings.Join(errs, "; "))
	}
	return nil
}

// DecodePayload validates raw and decodes it. Prices given as numbers are
// kept as their decimal text.
func DecodePayload(raw []byte) (*Payload, error) {
	if err := ValidatePayload(raw); err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(normalizePrices(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItinerary, err)
	}
	for d := range p.Days {
		for a := range p.Days[d].Activities {
			act := &p.Days[d].Activities[a]
			act.Type = ActivityType(strings.ToLower(strings.TrimSpace(string(act.Type)))).Normalize()
		}
	}
	return &p, nil
}

// normalizePrices rewrites numeric "price" values to strings so the payload
// decodes into Activity.Price.
func normalizePrices(raw []byte) []byte {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw
	}
	days, _ := doc["days"].([]any)
	changed := false
	for _, d := range days {
		day, _ := d.(map[string]any)
		acts, _ := day["activities"].([]any)
		for _, a := range acts {
			act, _ := a.(map[string]any)
			if n, ok := act["price"].(float64); ok {
				act["price"] = fmt.Sprintf("%g", n)
				changed = true
			}
		}
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return raw
	}
	return out
}
