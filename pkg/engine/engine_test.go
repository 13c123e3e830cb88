package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEngine() *Engine {
	return New(Config{
		DefaultPageLimit:  1,
		MaxPageLimit:      5,
		HTTPTimeout:       5 * time.Second,
		RequestsPerSecond: 100,
		MaxConcurrent:     2,
	}, zap.NewNop())
}

func listingPage(products ...[2]string) string {
	page := "<html><body><ul>"
	for _, p := range products {
		page += fmt.Sprintf(
			`<li class="product"><span class="name">%s</span><span class="price">%s</span></li>`,
			p[0], p[1],
		)
	}
	page += "</ul></body></html>"
	return page
}

func TestRunEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage(
			[2]string{"Aurora Lamp", "$49.99"},
			[2]string{"Basalt Mug", "$18.50"},
		)))
	}))
	defer srv.Close()

	e := testEngine()
	prompt := fmt.Sprintf("get the name and price from %s/products", srv.URL)

	resp, err := e.Run(context.Background(), prompt, nil)
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/products", resp.Plan.SeedURL)
	assert.Equal(t, []string{"name", "price"}, resp.Plan.Fields)
	require.Len(t, resp.Items, 2)

	name, _ := resp.Items[0].Field("name")
	assert.Equal(t, "Aurora Lamp", name)

	assert.Equal(t, 2, resp.Metadata.ItemCount)
	assert.Equal(t, []string{srv.URL + "/products"}, resp.Metadata.SourceURLs)

	nameCoverage, ok := resp.Metadata.FieldCoverage.Get("name")
	require.True(t, ok)
	assert.Equal(t, 1.0, nameCoverage)

	// Fetch and cleaning stats ride along as extra metadata.
	fetch, ok := resp.Metadata.Extra.Get("fetch")
	require.True(t, ok)
	assert.Contains(t, string(fetch.Raw), `"transport":"http"`)

	_, ok = resp.Metadata.Extra.Get("cleaning")
	assert.True(t, ok)

	assert.Empty(t, resp.Errors)
}

func TestRunPaginatedPages(t *testing.T) {
	var mu sync.Mutex
	var fetched []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetched = append(fetched, r.URL.RequestURI())
		mu.Unlock()
		page := r.URL.Query().Get("page")
		w.Write([]byte(listingPage(
			[2]string{"Item " + page + "a", "$1"},
			[2]string{"Item " + page + "b", "$2"},
		)))
	}))
	defer srv.Close()

	e := testEngine()
	two := 2
	prompt := fmt.Sprintf("get the name and price from %s/items?page=1", srv.URL)

	resp, err := e.Run(context.Background(), prompt, &two)
	require.NoError(t, err)

	// Pages fetch concurrently, so only membership is stable.
	assert.ElementsMatch(t, []string{"/items?page=1", "/items?page=2"}, fetched)
	assert.Len(t, resp.Items, 4)
	assert.Len(t, resp.Metadata.SourceURLs, 2)
}

func TestRunPageLimitClamp(t *testing.T) {
	var mu sync.Mutex
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.Write([]byte(listingPage([2]string{"One", "$1"}, [2]string{"Two", "$2"})))
	}))
	defer srv.Close()

	e := testEngine()
	many := 50
	prompt := fmt.Sprintf("get the name and price from %s/items?page=1", srv.URL)

	_, err := e.Run(context.Background(), prompt, &many)
	require.NoError(t, err)
	assert.Equal(t, 5, hits) // clamped to MaxPageLimit
}

func TestRunFailedPageCapturedAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := testEngine()
	prompt := fmt.Sprintf("get the name and price from %s/items", srv.URL)

	resp, err := e.Run(context.Background(), prompt, nil)
	require.NoError(t, err)

	assert.Empty(t, resp.Items)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "HTTP 500")
	assert.Equal(t, 0, resp.Metadata.ItemCount)

	// Coverage reports zero for every planned field when nothing was extracted.
	price, ok := resp.Metadata.FieldCoverage.Get("price")
	require.True(t, ok)
	assert.Equal(t, 0.0, price)
}

func TestRunPlannerErrorsPropagate(t *testing.T) {
	e := testEngine()

	_, err := e.Run(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = e.Run(context.Background(), "scrape the product names", nil)
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestRunWarnsWhenPaginationMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage([2]string{"One", "$1"}, [2]string{"Two", "$2"})))
	}))
	defer srv.Close()

	e := testEngine()
	three := 3
	prompt := fmt.Sprintf("get the name and price from %s/items", srv.URL)

	resp, err := e.Run(context.Background(), prompt, &three)
	require.NoError(t, err)
	assert.Contains(t, resp.Warnings,
		"Pagination requested but no pagination pattern was detected; scraping only the seed URL.")
	assert.Len(t, resp.Metadata.SourceURLs, 1)
}
