package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"repohub/internal/config"
	"repohub/internal/http/controller"
	"repohub/internal/http/middleware"
	"repohub/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		middleware.Metrics(m),
		cors.Default(),
	)

	router.NoRoute(handler.NoRoute)
	router.NoMethod(handler.NoMethod)

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/events", handler.Events)

	repositories := router.Group("/repositories")
	repositories.GET("", handler.ListRepositories)
	repositories.POST("", handler.CreateRepository)
	repositories.GET("/:id", handler.GetRepository)
	repositories.PUT("/", handler.MissingID)
	repositories.PUT("/:id", handler.UpdateRepository)
	repositories.DELETE("/", handler.MissingID)
	repositories.DELETE("/:id", handler.DeleteRepository)
	repositories.POST("/:id/like", handler.LikeRepository)

	return router
}
