// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxiwatch/internal/types"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// parseConversationID accepts Telegram chat ids, which may be negative for groups.
func parseConversationID(v string) (types.ConversationID, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n == 0 {
		return 0, errBadRequest
	}
	return types.ConversationID(n), nil
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeWatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		writeError(c, http.StatusBadRequest, "invalid id")
	case errors.Is(err, types.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	case types.IsTransport(err):
		writeError(c, http.StatusBadGateway, "upstream unavailable")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
