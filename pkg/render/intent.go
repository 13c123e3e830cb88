package render

import (
	"strings"

	"prompt-scrape-go/pkg/models"
)

// modeRules are checked in priority order; the first matching keyword wins.
var modeRules = []struct {
	mode     models.DisplayMode
	keywords []string
}{
	{models.ModeCSV, []string{"csv", "spreadsheet"}},
	{models.ModeTable, []string{"table", "tabular"}},
	{models.ModeJSON, []string{"json", "array"}},
}

// DetectMode infers the preferred display mode from the raw request text.
// Matching is case-insensitive substring matching with no partial scoring;
// empty or non-matching text falls back to the list mode.
func DetectMode(prompt string) models.DisplayMode {
	lowered := strings.ToLower(prompt)
	for _, rule := range modeRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.mode
			}
		}
	}
	return models.ModeList
}
