package engine

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-scrape-go/pkg/api/middleware"
)

type submitJobRequest struct {
	Prompt   string `json:"prompt"`
	MaxPages *int   `json:"max_pages"`
}

// NewRouter builds the engine's HTTP surface: job submission and a health
// probe.
func NewRouter(e *Engine, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/submit-job", func(c *gin.Context) {
		var req submitJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be valid JSON."})
			return
		}

		job, err := e.Run(c.Request.Context(), req.Prompt, req.MaxPages)
		if err != nil {
			if errors.Is(err, ErrEmptyPrompt) || errors.Is(err, ErrNoURL) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("job failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, job)
	})

	return router
}
