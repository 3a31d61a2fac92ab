package http

import (
	"github.com/gin-gonic/gin"

	"smart-todo-scheduler/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	runs := rg.Group("/ingestion")
	{
		runs.POST("/run", mw.RequestID(), mw.AccessLog(), h.Run)
		runs.GET("/status", mw.RequestID(), mw.AccessLog(), h.Status)
	}
}
