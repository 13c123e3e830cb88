package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Fetcher downloads pages over plain HTTP with rate limiting and bounded
// concurrency. Failed pages are captured, not fatal.
type Fetcher struct {
	client        *http.Client
	limiter       *rate.Limiter
	maxConcurrent int
}

// NewFetcher creates a fetcher with the given timeout, request rate and
// concurrency bound.
func NewFetcher(timeout time.Duration, requestsPerSecond float64, maxConcurrent int) *Fetcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Fetcher{
		client:        &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Limit(requestsPerSecond), maxConcurrent),
		maxConcurrent: maxConcurrent,
	}
}

// FetchStats summarizes a fetch pass for job metadata.
type FetchStats struct {
	PagesRequested int    `json:"pages_requested"`
	PagesFetched   int    `json:"pages_fetched"`
	PagesFailed    int    `json:"pages_failed"`
	Transport      string `json:"transport"`
}

// FetchAll fetches every URL, preserving input order in the result. Duplicate
// URLs are fetched once.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]PageContent, FetchStats) {
	seen := make(map[string]struct{})
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	pages := make([]PageContent, len(unique))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(f.maxConcurrent)
	for i, u := range unique {
		i, u := i, u
		group.Go(func() error {
			page := f.fetchOne(groupCtx, u)
			mu.Lock()
			pages[i] = page
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	stats := FetchStats{
		PagesRequested: len(unique),
		Transport:      "http",
	}
	for _, page := range pages {
		if page.Success() {
			stats.PagesFetched++
		} else {
			stats.PagesFailed++
		}
	}
	return pages, stats
}

func (f *Fetcher) fetchOne(ctx context.Context, pageURL string) PageContent {
	page := PageContent{URL: pageURL, FinalURL: pageURL}

	if err := f.limiter.Wait(ctx); err != nil {
		page.Err = err.Error()
		return page
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		page.Err = err.Error()
		return page
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		page.Err = err.Error()
		return page
	}
	defer resp.Body.Close()

	page.StatusCode = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		page.FinalURL = resp.Request.URL.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		page.Err = err.Error()
		return page
	}
	page.HTML = string(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		page.Err = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return page
}
