// README: Analysis history lookup.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guardian/internal/modules/analysis"
	"guardian/internal/modules/history"
)

const maxHistoryLimit = 100

type HistoryReader interface {
	Get(ctx context.Context, id string) (*history.Entry, error)
	ListRecent(ctx context.Context, f analysis.Family, limit int) ([]history.Entry, error)
}

type HistoryHandler struct {
	store HistoryReader
}

// NewHistoryHandler accepts a nil store when no database is configured.
func NewHistoryHandler(store HistoryReader) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// Get handles GET /api/analyses/:id.
func (h *HistoryHandler) Get(c *gin.Context) {
	if h.store == nil {
		writeNotConfigured(c, "history is not configured")
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		writeInvalidInput(c, "invalid id")
		return
	}

	entry, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(c, http.StatusNotFound, KindNotFound, err.Error())
			return
		}
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, KindInternal, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, entry)
}

type listResp struct {
	Items []history.Entry `json:"items"`
}

// List handles GET /api/analyses?family=&limit=. Family defaults to
// personal_safety.
func (h *HistoryHandler) List(c *gin.Context) {
	if h.store == nil {
		writeNotConfigured(c, "history is not configured")
		return
	}
	f := analysis.Family(c.DefaultQuery("family", string(analysis.FamilyPersonal)))
	if f != analysis.FamilyPersonal && f != analysis.FamilyBusiness {
		writeInvalidInput(c, "family must be personal_safety or business_document")
		return
	}
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeInvalidInput(c, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	items, err := h.store.ListRecent(c.Request.Context(), f, limit)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, KindInternal, "internal error")
		return
	}
	if items == nil {
		items = []history.Entry{}
	}
	writeJSON(c, http.StatusOK, listResp{Items: items})
}
