package render

import (
	"encoding/json"
	"fmt"

	"prompt-scrape-go/pkg/models"
)

// JSON renders a pretty-printed serialization of the raw item sequence,
// unmodified: item key order is preserved exactly as received.
func JSON(items []*models.ScrapedItem) string {
	if items == nil {
		items = []*models.ScrapedItem{}
	}
	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Sprintf("Unable to serialize items: %v", err)
	}
	return string(out)
}
