package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"prompt-scrape-go/pkg/models"
)

// JobDetails renders the execution plan and the coverage/metadata that
// accompany the items. It is independent of the chosen item-display mode.
func JobDetails(resp *models.ScrapeJobResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("Plan\n")
	fmt.Fprintf(&b, "  Seed URL: %s\n", resp.Plan.SeedURL)

	fieldList := emDash
	if len(resp.Plan.Fields) > 0 {
		fieldList = strings.Join(resp.Plan.Fields, ", ")
	}
	fmt.Fprintf(&b, "  Fields: %s\n", fieldList)

	if resp.Plan.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", resp.Plan.Description)
	}

	if len(resp.Plan.ExtraURLs) > 0 {
		b.WriteString("  Extra URLs:\n")
		for _, url := range resp.Plan.ExtraURLs {
			fmt.Fprintf(&b, "    - %s\n", url)
		}
	}

	if len(resp.Plan.Interactions) > 0 {
		b.WriteString("  Interactions:\n")
		for _, step := range resp.Plan.Interactions {
			b.WriteString("    - " + describeInteraction(step) + "\n")
		}
	}

	if pages := resp.Plan.RequestedPageCount; pages != nil && *pages != 0 {
		fmt.Fprintf(&b, "  Requested pages: %d\n", *pages)
	}

	if len(resp.Plan.Notes) > 0 {
		b.WriteString("  Notes:\n")
		for _, note := range resp.Plan.Notes {
			fmt.Fprintf(&b, "    - %s\n", note)
		}
	}

	b.WriteString("\nMetadata\n")
	fmt.Fprintf(&b, "  Items: %d\n", resp.Metadata.ItemCount)

	if len(resp.Metadata.SourceURLs) > 0 {
		b.WriteString("  Source URLs:\n")
		for _, url := range resp.Metadata.SourceURLs {
			fmt.Fprintf(&b, "    - %s\n", url)
		}
	} else {
		b.WriteString("  Source URLs: none captured\n")
	}

	if coverage := resp.Metadata.FieldCoverage; coverage != nil && coverage.Len() > 0 {
		b.WriteString("  Field coverage:\n")
		for pair := coverage.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&b, "    %s: %s\n", pair.Key, FormatCoverage(pair.Value))
		}
	}

	if extra := resp.Metadata.Extra; extra != nil {
		for pair := extra.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&b, "  %s: %s\n", humanizeKey(pair.Key), formatMetaValue(pair.Value))
		}
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\nWarnings\n")
		for _, warning := range resp.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}
	if len(resp.Errors) > 0 {
		b.WriteString("\nErrors\n")
		for _, errMsg := range resp.Errors {
			fmt.Fprintf(&b, "  - %s\n", errMsg)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatCoverage renders a coverage fraction in [0,1] as a percentage.
func FormatCoverage(coverage float64) string {
	return strconv.Itoa(int(math.Round(coverage*100))) + "%"
}

// humanizeKey turns a snake_case metadata key into a readable label.
func humanizeKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// formatMetaValue applies one formatting rule per value shape.
func formatMetaValue(v models.MetaValue) string {
	switch v.Kind {
	case models.MetaNull:
		return emDash
	case models.MetaString:
		return v.Str
	case models.MetaNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case models.MetaBool:
		return strconv.FormatBool(v.Bool)
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, v.Raw); err != nil {
			return "[unserializable]"
		}
		return compact.String()
	}
}

func describeInteraction(step models.InteractionStep) string {
	parts := []string{step.Kind}
	if step.Selector != nil && *step.Selector != "" {
		parts = append(parts, *step.Selector)
	}
	if step.Count > 1 {
		parts = append(parts, fmt.Sprintf("x%d", step.Count))
	}
	if step.Note != nil && *step.Note != "" {
		parts = append(parts, "("+*step.Note+")")
	}
	return strings.Join(parts, " ")
}
