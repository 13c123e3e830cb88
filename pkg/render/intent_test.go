package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prompt-scrape-go/pkg/models"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   models.DisplayMode
	}{
		{"csv keyword", "export the products as CSV", models.ModeCSV},
		{"spreadsheet keyword", "give me a spreadsheet of listings", models.ModeCSV},
		{"table keyword", "show the results in a table", models.ModeTable},
		{"tabular keyword", "tabular output please", models.ModeTable},
		{"json keyword", "return the data as JSON", models.ModeJSON},
		{"array keyword", "I want an array of items", models.ModeJSON},
		{"no keyword", "get the top headlines from the site", models.ModeList},
		{"empty prompt", "", models.ModeList},
		{"case insensitive", "Format as a TABLE", models.ModeTable},
		{"substring match", "tabled data", models.ModeTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMode(tt.prompt))
		})
	}
}

func TestDetectModePriority(t *testing.T) {
	// csv wins over table, table wins over json, when several keywords appear.
	assert.Equal(t, models.ModeCSV, DetectMode("a csv table of json data"))
	assert.Equal(t, models.ModeTable, DetectMode("a table of json data"))
}
