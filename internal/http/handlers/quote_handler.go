// README: Quote history handler backed by the postgres quote log.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxiwatch/internal/modules/pricing"
	"taxiwatch/internal/types"
)

type QuoteHistory interface {
	ListBySearch(ctx context.Context, searchID string) ([]pricing.QuoteRecord, error)
}

type QuoteHandler struct {
	quotes QuoteHistory
}

func NewQuoteHandler(quotes QuoteHistory) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

func (h *QuoteHandler) ListBySearch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeWatchError(c, errBadRequest)
		return
	}
	records, err := h.quotes.ListBySearch(c.Request.Context(), id.String())
	if err != nil {
		writeWatchError(c, err)
		return
	}
	if len(records) == 0 {
		writeWatchError(c, types.ErrNotFound)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"search_id": id.String(), "quotes": records})
}
