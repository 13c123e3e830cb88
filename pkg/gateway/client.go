package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"prompt-scrape-go/pkg/models"
)

// Client is the single outbound path to the scraping backend, reached
// through the proxy route. It normalizes the backend's success/error
// contract into SubmitError values.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a submission client against the proxy base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// submitJobRequest is the wire payload; max_pages is attached only when the
// caller provided a positive value.
type submitJobRequest struct {
	Prompt   string `json:"prompt"`
	MaxPages *int   `json:"max_pages,omitempty"`
}

// SubmitJob sends a natural-language scraping request and returns the parsed
// job response. Every failure is a *SubmitError; a blank prompt is rejected
// before any network call is made.
func (c *Client) SubmitJob(ctx context.Context, prompt string, maxPages int) (*models.ScrapeJobResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, newValidationError("Please describe what you would like to scrape.")
	}

	payload := submitJobRequest{Prompt: prompt}
	if maxPages > 0 {
		payload.MaxPages = &maxPages
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newNetworkError("Failed to encode the request.", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scraper", bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError("Failed to create the request.", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newNetworkError("Could not reach the scraper backend.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError("Failed to read the backend response.", err)
	}

	// Probe the body as structured data first: a body that is not JSON at
	// all is its own failure, independent of status code. A body that is
	// valid JSON but not an object still counts as readable; what it means
	// depends on the status below.
	var probe map[string]json.RawMessage
	probeErr := json.Unmarshal(raw, &probe)
	if probeErr != nil && !json.Valid(raw) {
		return nil, newNetworkError("The scraper backend returned an unreadable response.", probeErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := errorField(probe); msg != "" {
			return nil, newBackendError(msg)
		}
		return nil, newBackendError(fmt.Sprintf("The scraper backend failed with status %d.", resp.StatusCode))
	}

	// A 200 status is not sufficient evidence of a valid payload: the body
	// must be an object carrying at least one of the job result keys.
	if probeErr != nil {
		return nil, newContractError("The scraper backend returned an unexpected response.")
	}
	_, hasPlan := probe["plan"]
	_, hasItems := probe["items"]
	if !hasPlan && !hasItems {
		return nil, newContractError("The scraper backend returned an unexpected response.")
	}

	var job models.ScrapeJobResponse
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, newContractError("The scraper backend returned a malformed job result.")
	}
	return &job, nil
}

// errorField extracts a usable error message from a failure payload.
func errorField(probe map[string]json.RawMessage) string {
	raw, ok := probe["error"]
	if !ok {
		return ""
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ""
	}
	return msg
}
