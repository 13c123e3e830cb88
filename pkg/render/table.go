package render

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"prompt-scrape-go/pkg/models"
)

// Table renders the items as a grid whose header is the aggregated field
// sequence, one row per item. A cell holds the item's value for that field
// or an em dash when the item does not carry it. With no aggregated fields
// there is nothing to build a table from, so a message is rendered instead.
func Table(items []*models.ScrapedItem, fields []string) string {
	if len(fields) == 0 {
		return msgNoFields
	}

	w := table.NewWriter()
	w.SetStyle(table.StyleRounded)

	header := make(table.Row, len(fields))
	for i, name := range fields {
		header[i] = name
	}
	w.AppendHeader(header)

	for _, item := range items {
		row := make(table.Row, len(fields))
		for i, name := range fields {
			if value, ok := item.Field(name); ok {
				row[i] = value
			} else {
				row[i] = emDash
			}
		}
		w.AppendRow(row)
	}

	return w.Render()
}
