package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alimomennasab/hate-speech-agent/internal/adapter/http/handler"
	"github.com/alimomennasab/hate-speech-agent/internal/adapter/http/middleware"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
	"github.com/alimomennasab/hate-speech-agent/internal/usecase"
)

// Deps groups what the router needs. DB, Redis and HealthChecker may be nil.
type Deps struct {
	DB            *gorm.DB
	Redis         *redis.Client
	CheckUC       usecase.CheckUsecase
	HealthChecker service.HealthChecker
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis, deps.HealthChecker)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	checkHandler := handler.NewCheckHandler(deps.CheckUC)

	v1 := router.Group("/api/v1")
	{
		checks := v1.Group("/checks")
		{
			checks.POST("", checkHandler.SubmitCheck)
			checks.GET("/current", checkHandler.GetCurrent)
		}

		submissions := v1.Group("/submissions")
		{
			submissions.GET("", checkHandler.ListSubmissions)
			submissions.GET("/recent", checkHandler.ListRecent)
			submissions.GET("/stats", checkHandler.GetStats)
			submissions.GET("/:id", checkHandler.GetSubmission)
		}
	}

	return router
}
