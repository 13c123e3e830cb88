package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-scrape-go/pkg/models"
)

func TestRefineNormalizesWhitespace(t *testing.T) {
	refiner := NewRefiner()
	fields := testFields("name")

	items := []*models.ScrapedItem{
		models.ItemFromPairs("name", "  Aurora \n Lamp  "),
	}

	cleaned, stats, warnings := refiner.Refine(items, fields)
	require.Len(t, cleaned, 1)
	assert.Empty(t, warnings)

	name, _ := cleaned[0].Field("name")
	assert.Equal(t, "Aurora Lamp", name)
	assert.Equal(t, 1, stats.RecordsBefore)
	assert.Equal(t, 1, stats.RecordsAfter)
}

func TestRefineRemovesDuplicates(t *testing.T) {
	refiner := NewRefiner()
	fields := testFields("name", "price")

	items := []*models.ScrapedItem{
		models.ItemFromPairs("name", "Aurora Lamp", "price", "$49.99"),
		models.ItemFromPairs("name", "aurora lamp", "price", "$49.99"),
		models.ItemFromPairs("name", "Basalt Mug", "price", "$18.50"),
	}

	cleaned, stats, _ := refiner.Refine(items, fields)
	assert.Len(t, cleaned, 2)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 3, stats.RecordsBefore)
	assert.Equal(t, 2, stats.RecordsAfter)
}

func TestRefineDedupeIgnoresLinkFields(t *testing.T) {
	refiner := NewRefiner()
	fields := testFields("name", "url")

	// Same record reached through two URLs collapses to one.
	items := []*models.ScrapedItem{
		models.ItemFromPairs("name", "Aurora Lamp", "url", "https://a.example/1"),
		models.ItemFromPairs("name", "Aurora Lamp", "url", "https://a.example/1?ref=page2"),
	}

	cleaned, stats, _ := refiner.Refine(items, fields)
	assert.Len(t, cleaned, 1)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
}

func TestRefineFieldPopulationAndWarnings(t *testing.T) {
	refiner := NewRefiner()
	fields := testFields("name", "price")

	items := []*models.ScrapedItem{
		models.ItemFromPairs("name", "Aurora Lamp", "price", ""),
		models.ItemFromPairs("name", "Basalt Mug", "price", ""),
	}

	cleaned, stats, warnings := refiner.Refine(items, fields)
	require.Len(t, cleaned, 2)

	nameCount, _ := stats.FieldPopulation.Get("name")
	priceCount, _ := stats.FieldPopulation.Get("price")
	assert.Equal(t, 2, nameCount)
	assert.Equal(t, 0, priceCount)

	require.Len(t, warnings, 1)
	assert.Equal(t, "No values found for 'price' after normalization.", warnings[0])
}

func TestRefineEmptyInput(t *testing.T) {
	refiner := NewRefiner()

	cleaned, stats, warnings := refiner.Refine(nil, testFields("name"))
	assert.Empty(t, cleaned)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, stats.RecordsBefore)
}
