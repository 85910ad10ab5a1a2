// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiwatch/internal/http/handlers"
	"taxiwatch/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.AdminToken))

	watchHandler := handlers.NewWatchHandler(deps.Watches)
	api.GET("/watches", watchHandler.List)
	api.GET("/watches/:id", watchHandler.Get)
	api.DELETE("/watches/:id", watchHandler.Cancel)

	if deps.Quotes != nil {
		quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
		api.GET("/searches/:id/quotes", quoteHandler.ListBySearch)
	}
	return r
}
