package render

import (
	"regexp"
	"strings"

	"prompt-scrape-go/pkg/models"
)

var lineBreakRe = regexp.MustCompile(`\r\n|\r|\n`)

// CSV renders the items as comma-separated values: a header row of the
// aggregated fields joined by comma, then one data row per item. Every data
// cell is wrapped in double quotes with embedded quotes doubled and embedded
// line breaks (CR, LF, or CRLF) collapsed to a single space; an absent field
// substitutes the empty string. CSV needs at least one aggregated field,
// otherwise a message is rendered instead.
func CSV(items []*models.ScrapedItem, fields []string) string {
	if len(fields) == 0 {
		return msgNoFields
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strings.Join(fields, ","))

	for _, item := range items {
		cells := make([]string, len(fields))
		for i, name := range fields {
			value, _ := item.Field(name)
			cells[i] = escapeCell(value)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func escapeCell(value string) string {
	value = lineBreakRe.ReplaceAllString(value, " ")
	value = strings.ReplaceAll(value, `"`, `""`)
	return `"` + value + `"`
}
