package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas del embudo.
func NewRouter(
	logger *zap.Logger,
	funnelH *FunnelHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("", jsonContentTypeMiddleware())
	api.GET("/options", funnelH.Options)

	sessions := api.Group("/sessions")
	sessions.POST("", funnelH.CreateSession)
	sessions.GET("/:id", funnelH.GetSession)
	sessions.POST("/:id/start", funnelH.Start)
	sessions.PATCH("/:id/profile", funnelH.UpdateProfile)
	sessions.POST("/:id/steps/next", funnelH.NextStep)
	sessions.POST("/:id/steps/back", funnelH.PrevStep)
	sessions.POST("/:id/lead", funnelH.SubmitLead)
	sessions.GET("/:id/results", funnelH.Results)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
