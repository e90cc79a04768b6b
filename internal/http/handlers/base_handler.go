// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"guardian/internal/modules/analysis"
)

// Kinds raised at the HTTP boundary in addition to the analysis kinds.
const (
	KindInvalidItinerary = "invalid_itinerary"
	KindNotConfigured    = "not_configured"
	KindNotFound         = "not_found"
	KindTimeout          = "timeout"
	KindInternal         = "internal"
)

type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Track  string `json:"track,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, kind, detail string) {
	writeJSON(c, status, errorResponse{Error: errorBody{Kind: kind, Detail: detail}})
}

func writeInvalidInput(c *gin.Context, detail string) {
	writeError(c, http.StatusBadRequest, string(analysis.KindInvalidInput), detail)
}

func writeNotConfigured(c *gin.Context, detail string) {
	writeError(c, http.StatusServiceUnavailable, KindNotConfigured, detail)
}

// writeAnalysisError maps pipeline error kinds to status codes. Provider
// details stay in the logs.
func writeAnalysisError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(c, http.StatusGatewayTimeout, KindTimeout, "analysis timed out")
		return
	}

	e := analysis.AsError(err)
	body := errorBody{Kind: string(e.Kind), Track: string(e.Track)}
	status := http.StatusInternalServerError
	switch e.Kind {
	case analysis.KindInvalidInput:
		status = http.StatusBadRequest
		body.Detail = e.Detail
	case analysis.KindProviderUnavailable:
		status = http.StatusServiceUnavailable
		body.Detail = "analysis provider unavailable"
	case analysis.KindUnhandledTrack:
		status = http.StatusUnprocessableEntity
		body.Detail = "content type not supported"
	case analysis.KindAnalysisFailed:
		status = http.StatusBadGateway
		body.Detail = "analysis failed"
	default:
		body.Kind = KindInternal
		body.Detail = "internal error"
	}
	writeJSON(c, status, errorResponse{Error: body})
}
