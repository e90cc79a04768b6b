package itinerary

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleItinerary = `{"type":"itinerary","title":"Paris weekend","destination":"Paris","start_date":"2026-05-01","end_date":"2026-05-02",
"days":[{"day_number":1,"title":"Museums","date":"2026-05-01","activities":[
 {"time":"09:00","title":"Louvre","type":"attraction","location":"Musée du Louvre","description":"Art","duration":"3h","price":22,"tips":"Book ahead"},
 {"time":"13:00","title":"Lunch","type":"Restaurant","location":"Chez Janou"}]}]}`

func TestExtract_FencedBlock(t *testing.T) {
	text := "Sure! ```json " + sampleItinerary + "``` Hope that helps!"

	p, clean, err := Extract(text)
	require.NoError(t, err)

	assert.Equal(t, "Sure! Hope that helps!", clean)
	assert.Equal(t, "itinerary", p.Type)
	assert.Equal(t, "Paris", p.Destination)
	require.Len(t, p.Days, 1)
	require.Len(t, p.Days[0].Activities, 2)
	assert.Equal(t, "22", p.Days[0].Activities[0].Price)
	assert.Equal(t, TypeRestaurant, p.Days[0].Activities[1].Type)
}

func TestExtract_MultilineReply(t *testing.T) {
	text := "Here is your plan:\n\n```json\n" + sampleItinerary + "\n```\n\n\n\nEnjoy Paris!"

	_, clean, err := Extract(text)
	require.NoError(t, err)
	assert.Equal(t, "Here is your plan:\n\nEnjoy Paris!", clean)
}

func TestExtract_BareObject(t *testing.T) {
	p, clean, err := Extract("Plan follows " + sampleItinerary + " bon voyage")
	require.NoError(t, err)
	assert.Equal(t, "Paris weekend", p.Title)
	assert.Equal(t, "Plan follows bon voyage", clean)
}

func TestExtract_NoItinerary(t *testing.T) {
	for _, text := range []string{
		"  I can suggest some museums in Paris.  ",
		"Use the {placeholder} syntax here",
		`Here is a config sample: {"port":8080} hope it helps`,
		"```json\n{\"type\":\"recipe\",\"days\":[]}\n```",
	} {
		p, clean, err := Extract(text)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrNoItinerary)
		assert.Equal(t, strings.TrimSpace(text), clean)
	}
}

func TestExtract_ContractViolations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing days", `{"type":"itinerary","title":"x"}`},
		{"activity without title", `{"type":"itinerary","days":[{"day_number":1,"activities":[{"type":"hotel"}]}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Extract("```json\n" + tc.json + "\n```")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidItinerary))
		})
	}
}

func TestDecodePayload_EmptyDays(t *testing.T) {
	p, err := DecodePayload([]byte(`{"type":"itinerary","days":[]}`))
	require.NoError(t, err)
	assert.Empty(t, p.Days)
}

func TestExtract_SkipsUnrelatedJSON(t *testing.T) {
	text := "Config: ```json\n{\"port\":8080}\n``` and your trip: ```json\n" + sampleItinerary + "\n``` Enjoy!"

	p, clean, err := Extract(text)
	require.NoError(t, err)
	assert.Equal(t, "Paris weekend", p.Title)
	assert.Equal(t, "Config: ```json\n{\"port\":8080}\n``` and your trip: Enjoy!", clean)
}

func TestExtract_LaterValidCandidateWins(t *testing.T) {
	text := `Draft {"type":"itinerary"} final ` + sampleItinerary

	p, clean, err := Extract(text)
	require.NoError(t, err)
	assert.Equal(t, "Paris", p.Destination)
	assert.Equal(t, `Draft {"type":"itinerary"} final`, clean)
}
