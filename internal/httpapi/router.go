package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chartbridge/internal/logging"
)

// NewRouter wires h onto a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(accessLog())
	router.Use(recovery())

	v1 := router.Group("/v1")
	{
		v1.POST("/dsl-to-workflow", h.DSLToWorkflow)
		v1.POST("/vega-to-dsl", h.VegaToDSL)
	}
	router.GET("/healthz", h.Health)
	return router
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.L().Error("httpapi: panic", "path", c.Request.URL.Path, "recovered", recovered)
		Error(c, http.StatusInternalServerError, "internal server error")
		c.Abort()
	})
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.L().Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
