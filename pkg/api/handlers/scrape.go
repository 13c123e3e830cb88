package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScraperProxy forwards scraping requests to the backend's job-submission
// endpoint. It is a pure passthrough: on a successful exchange the backend's
// JSON body and status travel back unchanged; any local failure collapses to
// a generic 500.
type ScraperProxy struct {
	backendOrigin string
	httpClient    *http.Client
	log           *zap.Logger
}

// NewScraperProxy creates a proxy against the server-side backend origin.
func NewScraperProxy(backendOrigin string, log *zap.Logger) *ScraperProxy {
	return &ScraperProxy{
		backendOrigin: strings.TrimSuffix(backendOrigin, "/"),
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
		log: log,
	}
}

type proxyRequest struct {
	Prompt   string `json:"prompt"`
	MaxPages *int   `json:"max_pages,omitempty"`
}

// SubmitJob handles POST /api/scraper.
func (p *ScraperProxy) SubmitJob(c *gin.Context) {
	var req proxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		p.fail(c, "parse request", err)
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		p.fail(c, "encode payload", err)
		return
	}

	upstream, err := http.NewRequestWithContext(
		c.Request.Context(),
		http.MethodPost,
		p.backendOrigin+"/submit-job",
		bytes.NewReader(payload),
	)
	if err != nil {
		p.fail(c, "build upstream request", err)
		return
	}
	upstream.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(upstream)
	if err != nil {
		p.fail(c, "reach backend", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.fail(c, "read backend response", err)
		return
	}
	if !json.Valid(body) {
		p.fail(c, "parse backend response", nil)
		return
	}

	c.Data(resp.StatusCode, "application/json", body)
}

func (p *ScraperProxy) fail(c *gin.Context, stage string, err error) {
	p.log.Warn("proxy failure", zap.String("stage", stage), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
