package render

import (
	"fmt"
	"strings"

	"prompt-scrape-go/pkg/models"
)

// List renders every key/value pair of every item as a labeled entry.
// An item with no keys renders a placeholder; an empty value renders an
// em dash.
func List(items []*models.ScrapedItem) string {
	if len(items) == 0 {
		return msgNoItems
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Item %d\n", i+1)

		names := item.FieldNames()
		if len(names) == 0 {
			b.WriteString("  (no fields extracted for this item)\n")
			continue
		}
		for _, name := range names {
			value, _ := item.Field(name)
			if value == "" {
				value = emDash
			}
			fmt.Fprintf(&b, "  %s: %s\n", name, value)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
