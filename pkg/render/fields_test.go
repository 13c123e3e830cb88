package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prompt-scrape-go/pkg/models"
)

func TestAggregateFields(t *testing.T) {
	t.Run("union in first-occurrence order", func(t *testing.T) {
		items := []*models.ScrapedItem{
			models.ItemFromPairs("name", "A"),
			models.ItemFromPairs("price", "10"),
			models.ItemFromPairs("name", "B", "rating", "4.5"),
		}
		assert.Equal(t, []string{"name", "price", "rating"}, AggregateFields(items))
	})

	t.Run("duplicates keep first position", func(t *testing.T) {
		items := []*models.ScrapedItem{
			models.ItemFromPairs("name", "A", "price", "1"),
			models.ItemFromPairs("price", "2", "name", "B"),
		}
		assert.Equal(t, []string{"name", "price"}, AggregateFields(items))
	})

	t.Run("empty collection", func(t *testing.T) {
		assert.Empty(t, AggregateFields(nil))
		assert.Empty(t, AggregateFields([]*models.ScrapedItem{}))
	})

	t.Run("items without keys", func(t *testing.T) {
		items := []*models.ScrapedItem{
			models.NewScrapedItem(),
			models.ItemFromPairs("title", "x"),
		}
		assert.Equal(t, []string{"title"}, AggregateFields(items))
	})

	t.Run("idempotent", func(t *testing.T) {
		items := []*models.ScrapedItem{
			models.ItemFromPairs("name", "A"),
			models.ItemFromPairs("price", "10"),
		}
		first := AggregateFields(items)
		second := AggregateFields(items)
		assert.Equal(t, first, second)
	})
}
