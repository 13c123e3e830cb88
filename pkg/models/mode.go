package models

// DisplayMode is the encoding used to present scraped items.
type DisplayMode string

const (
	ModeList  DisplayMode = "list"
	ModeTable DisplayMode = "table"
	ModeJSON  DisplayMode = "json"
	ModeCSV   DisplayMode = "csv"
)

// DisplayModes lists all modes in selector order.
var DisplayModes = []DisplayMode{ModeList, ModeTable, ModeJSON, ModeCSV}

// Structured reports whether the mode requires at least one aggregated field.
func (m DisplayMode) Structured() bool {
	return m == ModeTable || m == ModeCSV
}

// Label returns the human-readable name used by the mode selector.
func (m DisplayMode) Label() string {
	switch m {
	case ModeTable:
		return "Table"
	case ModeJSON:
		return "JSON"
	case ModeCSV:
		return "CSV"
	default:
		return "List"
	}
}
