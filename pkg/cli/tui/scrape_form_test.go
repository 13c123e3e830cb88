package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-scrape-go/pkg/models"
	"prompt-scrape-go/pkg/render"
)

func resultFixture() *models.ScrapeJobResponse {
	item := models.NewScrapedItem()
	item.Set("name", "Widget")
	item.Set("price", "10")
	return &models.ScrapeJobResponse{
		Plan:     models.ScrapePlan{SeedURL: "https://example.com", Fields: []string{"name", "price"}},
		Items:    []*models.ScrapedItem{item},
		Warnings: []string{"https://example.com: no pagination detected"},
		Errors:   []string{},
	}
}

func newResultsForm(t *testing.T) *scrapeForm {
	t.Helper()
	form, ok := NewScrapeForm(nil, 1).(*scrapeForm)
	require.True(t, ok)

	form.result = resultFixture()
	form.fields = render.AggregateFields(form.result.Items)
	form.mode = models.ModeList
	form.step = stepResults
	form.refreshViewport()
	return form
}

func TestResultsViewShowsItemCountAndWarnings(t *testing.T) {
	form := newResultsForm(t)

	view := form.View()
	assert.Contains(t, view, "1 item(s) scraped")
	assert.Contains(t, view, "1 warning(s); press 'd' for details.")
}

func TestResultsViewHidesWarningLineWithDetailsOpen(t *testing.T) {
	form := newResultsForm(t)
	form.showDetails = true
	form.refreshViewport()

	assert.NotContains(t, form.View(), "warning(s); press 'd' for details.")
}

func TestSubmittingViewEchoesThePrompt(t *testing.T) {
	form, ok := NewScrapeForm(nil, 1).(*scrapeForm)
	require.True(t, ok)

	form.promptInput.SetValue("scrape https://example.com ")
	form.step = stepSubmitting

	view := form.View()
	assert.Contains(t, view, "Request:")
	assert.Contains(t, view, "scrape https://example.com")
}
