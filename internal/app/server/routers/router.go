package routers

import (
	"github.com/gin-gonic/gin"

	"flp/matchd/internal/app/pkg/logger"
	"flp/matchd/internal/app/server/handlers/candidate"
	"flp/matchd/internal/app/server/handlers/claim"
	"flp/matchd/internal/app/server/handlers/watch"
	"flp/matchd/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	candidateHandler *candidate.CandidateHandler,
	claimHandler *claim.ClaimHandler,
	watchHandler *watch.WatchHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "matchd",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		providers := v1.Group("/providers")
		{
			providers.GET("/:id/candidates", candidateHandler.List)
		}

		workItems := v1.Group("/work-items")
		{
			workItems.POST("/:id/claim", claimHandler.Claim)
			workItems.POST("/:id/release", claimHandler.Release)
			workItems.GET("/:id/availability", watchHandler.Stream)
		}
	}

	return r
}
