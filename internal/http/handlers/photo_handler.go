package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"guardian/internal/modules/analysis"
	"guardian/internal/modules/itinerary"
)

const (
	maxPhotoWidth = 1600
	maxPhotoRef   = 1024
)

// PhotoFetcher streams place photos by reference. The caller closes data.
type PhotoFetcher interface {
	Photo(ctx context.Context, ref string, maxWidth uint) (contentType string, data io.ReadCloser, err error)
}

type PhotoHandler struct {
	photos PhotoFetcher
}

// NewPhotoHandler accepts a nil fetcher when no place provider is configured.
func NewPhotoHandler(photos PhotoFetcher) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Get handles GET /api/places/photo?ref=&maxwidth=.
func (h *PhotoHandler) Get(c *gin.Context) {
	if h.photos == nil {
		writeNotConfigured(c, "place photos are not configured")
		return
	}
	ref := strings.TrimSpace(c.Query("ref"))
	if ref == "" || len(ref) > maxPhotoRef {
		writeInvalidInput(c, "invalid photo reference")
		return
	}
	width := itinerary.PhotoMaxWidth
	if raw := c.Query("maxwidth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPhotoWidth {
			writeInvalidInput(c, "maxwidth must be between 1 and 1600")
			return
		}
		width = n
	}

	contentType, data, err := h.photos.Photo(c.Request.Context(), ref, uint(width))
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, string(analysis.KindProviderUnavailable), "photo unavailable")
		return
	}
	defer data.Close()
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, data, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
