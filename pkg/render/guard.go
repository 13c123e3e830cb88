package render

import (
	"prompt-scrape-go/pkg/models"
)

// EffectiveMode applies the mode-availability guard once per received job
// response: a detected table/csv mode is demoted to list when no item exposes
// any field. Manual re-selection is governed separately by ModeAvailable.
func EffectiveMode(detected models.DisplayMode, fields []string) models.DisplayMode {
	if detected.Structured() && len(fields) == 0 {
		return models.ModeList
	}
	return detected
}

// ModeAvailable reports whether a mode may be selected manually. Structured
// modes are unavailable while the aggregated field sequence is empty.
func ModeAvailable(mode models.DisplayMode, fields []string) bool {
	if mode.Structured() {
		return len(fields) > 0
	}
	return true
}
