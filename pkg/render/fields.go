package render

import (
	"prompt-scrape-go/pkg/models"
)

// AggregateFields returns the union of all item keys, ordered by first
// occurrence: outer iteration over items, inner iteration over each item's
// own key order. The result is deterministic and idempotent for a given
// item sequence.
func AggregateFields(items []*models.ScrapedItem) []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, item := range items {
		for _, name := range item.FieldNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fields = append(fields, name)
		}
	}
	return fields
}
