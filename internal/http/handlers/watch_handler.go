// README: Watch handlers for list/get/cancel of active price searches.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiwatch/internal/modules/watch"
	"taxiwatch/internal/types"
)

// WatchRegistry is the part of the watch scheduler the admin API uses.
type WatchRegistry interface {
	List() []watch.Snapshot
	Get(conv types.ConversationID) (watch.Snapshot, error)
	Cancel(conv types.ConversationID) bool
}

type WatchHandler struct {
	watches WatchRegistry
}

func NewWatchHandler(watches WatchRegistry) *WatchHandler {
	return &WatchHandler{watches: watches}
}

func (h *WatchHandler) List(c *gin.Context) {
	snaps := h.watches.List()
	writeJSON(c, http.StatusOK, gin.H{"watches": snaps, "count": len(snaps)})
}

func (h *WatchHandler) Get(c *gin.Context) {
	conv, err := parseConversationID(c.Param("id"))
	if err != nil {
		writeWatchError(c, err)
		return
	}
	snap, err := h.watches.Get(conv)
	if err != nil {
		writeWatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

// Cancel stops a watch without telling the user; the dialog stays in its
// current state and the next "Поиск" starts a fresh search.
func (h *WatchHandler) Cancel(c *gin.Context) {
	conv, err := parseConversationID(c.Param("id"))
	if err != nil {
		writeWatchError(c, err)
		return
	}
	if !h.watches.Cancel(conv) {
		writeWatchError(c, types.ErrNotFound)
		return
	}
	slog.Info("price watch cancelled via admin api", "conversation", conv)
	writeJSON(c, http.StatusOK, gin.H{"status": "cancelled", "conversation_id": conv})
}
