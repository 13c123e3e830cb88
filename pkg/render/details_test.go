package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"prompt-scrape-go/pkg/models"
)

func TestFormatCoverage(t *testing.T) {
	assert.Equal(t, "50%", FormatCoverage(0.5))
	assert.Equal(t, "100%", FormatCoverage(1))
	assert.Equal(t, "0%", FormatCoverage(0))
	assert.Equal(t, "67%", FormatCoverage(0.667))
}

func TestJobDetails(t *testing.T) {
	coverage := orderedmap.New[string, float64]()
	coverage.Set("name", 1)
	coverage.Set("price", 0.5)

	extra := orderedmap.New[string, models.MetaValue]()
	extra.Set("engine_version", models.MetaValueFromRaw(json.RawMessage(`"2.4"`)))
	extra.Set("cache_hit", models.MetaValueFromRaw(json.RawMessage(`false`)))
	extra.Set("elapsed_ms", models.MetaValueFromRaw(json.RawMessage(`153.5`)))
	extra.Set("debug", models.MetaValueFromRaw(json.RawMessage(`null`)))
	extra.Set("stats", models.MetaValueFromRaw(json.RawMessage(`{ "pages": 2 }`)))

	pages := 3
	resp := &models.ScrapeJobResponse{
		Plan: models.ScrapePlan{
			SeedURL:            "https://example.com/products",
			Fields:             []string{"name", "price"},
			Description:        "Extract name, price from https://example.com/products",
			RequestedPageCount: &pages,
			Notes:              []string{"note one"},
		},
		Warnings: []string{"partial coverage"},
		Errors:   []string{"https://example.com/p2: HTTP 500"},
		Metadata: models.ScrapeMetadata{
			ItemCount:     2,
			SourceURLs:    []string{"https://example.com/products"},
			FieldCoverage: coverage,
			Extra:         extra,
		},
	}

	got := JobDetails(resp)

	assert.Contains(t, got, "Seed URL: https://example.com/products")
	assert.Contains(t, got, "Fields: name, price")
	assert.Contains(t, got, "Requested pages: 3")
	assert.Contains(t, got, "Items: 2")
	assert.Contains(t, got, "name: 100%")
	assert.Contains(t, got, "price: 50%")

	// Extra keys are humanized and formatted per shape.
	assert.Contains(t, got, "engine version: 2.4")
	assert.Contains(t, got, "cache hit: false")
	assert.Contains(t, got, "elapsed ms: 153.5")
	assert.Contains(t, got, "debug: —")
	assert.Contains(t, got, `stats: {"pages":2}`)

	assert.Contains(t, got, "Warnings\n  - partial coverage")
	assert.Contains(t, got, "Errors\n  - https://example.com/p2: HTTP 500")
}

func TestJobDetailsMinimal(t *testing.T) {
	resp := &models.ScrapeJobResponse{
		Plan: models.ScrapePlan{SeedURL: "https://example.com"},
	}

	got := JobDetails(resp)
	assert.Contains(t, got, "Fields: —")
	assert.Contains(t, got, "Source URLs: none captured")
	assert.NotContains(t, got, "Warnings")
	assert.NotContains(t, got, "Errors")
}

func TestJobDetailsNil(t *testing.T) {
	assert.Equal(t, "", JobDetails(nil))
}

func TestDescribeInteraction(t *testing.T) {
	selector := "text=Load more"
	note := "Attempt to click 'Load more'."
	step := models.InteractionStep{
		Kind:     "click",
		Selector: &selector,
		Count:    1,
		Note:     &note,
	}
	assert.Equal(t, "click text=Load more (Attempt to click 'Load more'.)", describeInteraction(step))

	scroll := models.InteractionStep{Kind: "scroll", Count: 5}
	assert.Equal(t, "scroll x5", describeInteraction(scroll))
}
