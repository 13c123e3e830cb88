package render

import (
	"prompt-scrape-go/pkg/models"
)

// emDash is the placeholder for absent or empty values.
const emDash = "—"

// msgNoItems is shown when a job produced an empty item collection.
const msgNoItems = "No items were extracted."

// msgNoFields is shown instead of structured output for unstructured data.
const msgNoFields = "No structured fields were detected; structured views are unavailable for this result."

// Render encodes the item collection in the requested display mode. All
// renderers are pure functions of (items, aggregated fields) and never
// mutate their input; failures degrade to an inline message, never an error.
func Render(mode models.DisplayMode, items []*models.ScrapedItem, fields []string) string {
	switch mode {
	case models.ModeTable:
		return Table(items, fields)
	case models.ModeJSON:
		return JSON(items)
	case models.ModeCSV:
		return CSV(items, fields)
	default:
		return List(items)
	}
}
