// README: Itinerary extraction and place enrichment handlers.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"guardian/internal/modules/itinerary"
)

// PayloadEnricher resolves every activity of an itinerary.
type PayloadEnricher interface {
	EnrichPayload(ctx context.Context, p *itinerary.Payload) *itinerary.EnrichedItinerary
}

type ItineraryHandler struct {
	enricher PayloadEnricher
}

// NewItineraryHandler accepts a nil enricher when no place provider is
// configured; enrichment requests then get 503.
func NewItineraryHandler(enricher PayloadEnricher) *ItineraryHandler {
	return &ItineraryHandler{enricher: enricher}
}

type extractReq struct {
	Text   string `json:"text"`
	Enrich bool   `json:"enrich"`
}

type extractResp struct {
	Found     bool                         `json:"found"`
	CleanText string                       `json:"clean_text"`
	Itinerary *itinerary.Payload           `json:"itinerary,omitempty"`
	Enriched  *itinerary.EnrichedItinerary `json:"enriched,omitempty"`
}

// Extract handles POST /api/itinerary/extract. A reply without an itinerary
// is not an error; found is false and the text comes back as is. Only an
// object that declares itself an itinerary and breaks the contract gets 422.
func (h *ItineraryHandler) Extract(c *gin.Context) {
	var req extractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeInvalidInput(c, "missing text")
		return
	}

	payload, clean, err := itinerary.Extract(req.Text)
	switch {
	case errors.Is(err, itinerary.ErrNoItinerary):
		writeJSON(c, http.StatusOK, extractResp{CleanText: clean})
		return
	case errors.Is(err, itinerary.ErrInvalidItinerary):
		writeError(c, http.StatusUnprocessableEntity, KindInvalidItinerary, err.Error())
		return
	case err != nil:
		writeError(c, http.StatusInternalServerError, KindInternal, "internal error")
		return
	}

	resp := extractResp{Found: true, CleanText: clean, Itinerary: payload}
	if req.Enrich && h.enricher != nil {
		resp.Enriched = h.enricher.EnrichPayload(c.Request.Context(), payload)
	}
	writeJSON(c, http.StatusOK, resp)
}

// Enrich handles POST /api/itinerary/enrich with an itinerary payload body.
func (h *ItineraryHandler) Enrich(c *gin.Context) {
	if h.enricher == nil {
		writeNotConfigured(c, "place enrichment is not configured")
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		writeInvalidInput(c, "cannot read body")
		return
	}
	payload, err := itinerary.DecodePayload(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, KindInvalidItinerary, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, h.enricher.EnrichPayload(c.Request.Context(), payload))
}
