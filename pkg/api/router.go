package api

import (
	"prompt-scrape-go/pkg/api/handlers"
	"prompt-scrape-go/pkg/api/middleware"
	"prompt-scrape-go/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// The single proxy route to the scraping backend
	proxy := handlers.NewScraperProxy(cfg.API.BackendOrigin, log)
	router.POST("/api/scraper", proxy.SubmitJob)

	return router
}
