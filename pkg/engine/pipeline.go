package engine

import (
	"fmt"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"prompt-scrape-go/pkg/models"
)

// CleaningStats summarizes the refinement pass for job metadata.
type CleaningStats struct {
	RecordsBefore     int                                 `json:"records_before_cleaning"`
	RecordsAfter      int                                 `json:"records_after_cleaning"`
	DuplicatesRemoved int                                 `json:"duplicates_removed"`
	FieldPopulation   *orderedmap.OrderedMap[string, int] `json:"field_population"`
}

// Refiner normalizes extracted values and drops duplicate records.
type Refiner struct{}

// NewRefiner creates a refiner.
func NewRefiner() *Refiner {
	return &Refiner{}
}

// Refine trims and collapses whitespace in every value, removes duplicate
// items and reports per-field population. Duplicate detection ignores link
// and image fields so the same record reached through different URLs still
// collapses.
func (r *Refiner) Refine(items []*models.ScrapedItem, fields []FieldSpec) ([]*models.ScrapedItem, CleaningStats, []string) {
	stats := CleaningStats{
		RecordsBefore:   len(items),
		FieldPopulation: orderedmap.New[string, int](),
	}
	for _, field := range fields {
		stats.FieldPopulation.Set(field.Name, 0)
	}

	signatureFields := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.ValueType == valueLink || field.ValueType == valueImage {
			continue
		}
		signatureFields = append(signatureFields, field.Name)
	}

	seen := make(map[string]struct{})
	cleaned := make([]*models.ScrapedItem, 0, len(items))
	for _, item := range items {
		normalized := models.NewScrapedItem()
		for _, name := range item.FieldNames() {
			value, _ := item.Field(name)
			normalized.Set(name, normalizeText(value))
		}

		sig := signature(normalized, signatureFields)
		if _, ok := seen[sig]; ok {
			stats.DuplicatesRemoved++
			continue
		}
		seen[sig] = struct{}{}
		cleaned = append(cleaned, normalized)

		for _, field := range fields {
			if value, ok := normalized.Field(field.Name); ok && value != "" {
				count, _ := stats.FieldPopulation.Get(field.Name)
				stats.FieldPopulation.Set(field.Name, count+1)
			}
		}
	}
	stats.RecordsAfter = len(cleaned)

	var warnings []string
	if len(cleaned) > 0 {
		for _, field := range fields {
			if count, _ := stats.FieldPopulation.Get(field.Name); count == 0 {
				warnings = append(warnings, fmt.Sprintf("No values found for '%s' after normalization.", field.Name))
			}
		}
	}
	return cleaned, stats, warnings
}

// signature builds a dedupe key from the named fields, falling back to all
// values when none of them carry data.
func signature(item *models.ScrapedItem, fieldNames []string) string {
	var parts []string
	for _, name := range fieldNames {
		if value, ok := item.Field(name); ok && value != "" {
			parts = append(parts, strings.ToLower(value))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\x1f")
	}

	var all []string
	for _, name := range item.FieldNames() {
		value, _ := item.Field(name)
		all = append(all, strings.ToLower(value))
	}
	sort.Strings(all)
	return strings.Join(all, "\x1f")
}
