package engine

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"prompt-scrape-go/pkg/models"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numericRe    = regexp.MustCompile(`(?:[$€£]\s?)?\d[\d,]*(?:\.\d+)?`)
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		regexp.MustCompile(`(?i)\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}`),
	}
)

// Analyzer locates repeating item layouts in a page and pulls the requested
// fields out of each item.
type Analyzer struct{}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// ExtractItems parses html and returns one item per detected repeating
// element. Relative links and image sources are resolved against baseURL.
func (a *Analyzer) ExtractItems(html string, fields []FieldSpec, baseURL string) ([]*models.ScrapedItem, []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, []string{fmt.Sprintf("failed to parse HTML: %v", err)}
	}

	base, _ := url.Parse(baseURL)
	var warnings []string

	groups := repeatingGroups(doc)
	if len(groups) == 0 {
		warnings = append(warnings, "No repeating layout detected; falling back to whole-page extraction.")
		if item := a.extractItem(doc.Selection, fields, base); item != nil {
			return []*models.ScrapedItem{item}, warnings
		}
		return nil, warnings
	}

	var items []*models.ScrapedItem
	for _, group := range groups {
		var groupItems []*models.ScrapedItem
		for _, sel := range group {
			if item := a.extractItem(sel, fields, base); item != nil {
				groupItems = append(groupItems, item)
			}
		}
		if len(groupItems) >= 2 {
			items = append(items, groupItems...)
			break
		}
	}

	if len(items) == 0 {
		warnings = append(warnings, "Structured clusters did not yield data; using single-shot extraction.")
		if item := a.extractItem(doc.Selection, fields, base); item != nil {
			items = append(items, item)
		}
	}
	return items, warnings
}

// repeatingGroups clusters candidate elements by tag, class list and role.
// Only clusters with at least two members count; the five largest are
// returned, biggest first.
func repeatingGroups(doc *goquery.Document) [][]*goquery.Selection {
	clusters := make(map[string][]*goquery.Selection)
	var order []string

	doc.Find("article, li, tr, section, div").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		classes := strings.Fields(s.AttrOr("class", ""))
		role := s.AttrOr("role", "")

		if len(classes) == 0 && role == "" && tag != "article" && tag != "li" && tag != "tr" {
			return
		}

		sort.Strings(classes)
		key := tag + "|" + strings.Join(classes, ".") + "|" + role
		if _, ok := clusters[key]; !ok {
			order = append(order, key)
		}
		clusters[key] = append(clusters[key], s)
	})

	var keys []string
	for _, key := range order {
		if len(clusters[key]) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return len(clusters[keys[i]]) > len(clusters[keys[j]])
	})
	if len(keys) > 5 {
		keys = keys[:5]
	}

	groups := make([][]*goquery.Selection, len(keys))
	for i, key := range keys {
		groups[i] = clusters[key]
	}
	return groups
}

func (a *Analyzer) extractItem(scope *goquery.Selection, fields []FieldSpec, base *url.URL) *models.ScrapedItem {
	item := models.NewScrapedItem()
	populated := false
	for _, field := range fields {
		value := a.extractField(scope, field, base)
		if value != "" {
			populated = true
		}
		item.Set(field.Name, value)
	}
	if !populated {
		return nil
	}
	return item
}

// extractField tries attribute-based selectors first, then a value-typed scan
// of the whole scope.
func (a *Analyzer) extractField(scope *goquery.Selection, field FieldSpec, base *url.URL) string {
	for _, selector := range candidateSelectors(field) {
		found := scope.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		if value := a.extractValue(found, field, base); value != "" {
			return value
		}
	}

	switch field.ValueType {
	case valueLink:
		return a.bestLink(scope, field, base)
	case valueImage:
		return a.bestImage(scope, field, base)
	case valueNumeric:
		return a.bestPattern(scope, field, numericRe, 0.45)
	case valueDate:
		return a.bestDate(scope, field)
	default:
		return a.bestText(scope, field)
	}
}

func candidateSelectors(field FieldSpec) []string {
	var selectors []string
	for _, term := range field.Synonyms {
		selectors = append(selectors,
			fmt.Sprintf(`[class*="%s"]`, term),
			fmt.Sprintf(`[data-testid*="%s"]`, term),
			fmt.Sprintf(`[data-field*="%s"]`, term),
			fmt.Sprintf(`[data-name*="%s"]`, term),
			fmt.Sprintf(`[aria-label*="%s"]`, term),
			fmt.Sprintf(`[itemprop="%s"]`, term),
			fmt.Sprintf(`[name*="%s"]`, term),
		)
	}
	return selectors
}

func (a *Analyzer) extractValue(sel *goquery.Selection, field FieldSpec, base *url.URL) string {
	switch field.ValueType {
	case valueLink:
		for _, attr := range append(field.AttributePreferences, "href") {
			if raw, ok := sel.Attr(attr); ok && raw != "" {
				return resolveURL(base, raw)
			}
		}
		if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
			return resolveURL(base, href)
		}
		return ""
	case valueImage:
		target := sel
		if goquery.NodeName(sel) != "img" {
			img := sel.Find("img").First()
			if img.Length() > 0 {
				target = img
			}
		}
		for _, attr := range append(field.AttributePreferences, "src") {
			if raw, ok := target.Attr(attr); ok && raw != "" {
				return resolveURL(base, raw)
			}
		}
		return ""
	case valueNumeric:
		return numericRe.FindString(normalizeText(sel.Text()))
	case valueDate:
		text := normalizeText(sel.Text())
		for _, pattern := range datePatterns {
			if match := pattern.FindString(text); match != "" {
				return match
			}
		}
		return ""
	default:
		return normalizeText(sel.Text())
	}
}

// fieldScore measures how closely an element's attributes match a field.
// Exact token match wins outright; substring matches of meaningful length
// score lower.
func fieldScore(sel *goquery.Selection, field FieldSpec) float64 {
	var tokens []string
	for _, attr := range []string{"class", "id", "data-testid", "data-field", "data-name", "aria-label", "itemprop", "name"} {
		if raw, ok := sel.Attr(attr); ok {
			tokens = append(tokens, tokenRe.FindAllString(strings.ToLower(raw), -1)...)
		}
	}

	best := 0.0
	for _, token := range tokens {
		for _, synonym := range field.Synonyms {
			switch {
			case token == synonym:
				return 1.0
			case len(synonym) >= 3 && strings.Contains(token, synonym):
				if best < 0.75 {
					best = 0.75
				}
			}
		}
	}
	return best
}

func (a *Analyzer) bestText(scope *goquery.Selection, field FieldSpec) string {
	var bestValue string
	bestScore := 0.6
	scope.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		text := normalizeText(s.Text())
		if text == "" {
			return
		}
		if score := fieldScore(s, field); score > bestScore {
			bestScore = score
			bestValue = text
		}
	})
	if bestValue == "" && field.AllowPartial {
		if text := normalizeText(scope.Text()); text != "" && len(text) <= 400 {
			return text
		}
	}
	return bestValue
}

func (a *Analyzer) bestPattern(scope *goquery.Selection, field FieldSpec, pattern *regexp.Regexp, threshold float64) string {
	var bestValue string
	bestScore := threshold
	scope.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		match := pattern.FindString(normalizeText(s.Text()))
		if match == "" {
			return
		}
		if score := fieldScore(s, field); score > bestScore {
			bestScore = score
			bestValue = match
		}
	})
	if bestValue == "" {
		bestValue = pattern.FindString(normalizeText(scope.Text()))
	}
	return bestValue
}

func (a *Analyzer) bestDate(scope *goquery.Selection, field FieldSpec) string {
	var bestValue string
	bestScore := 0.4
	scope.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		text := normalizeText(s.Text())
		for _, pattern := range datePatterns {
			match := pattern.FindString(text)
			if match == "" {
				continue
			}
			if score := fieldScore(s, field); score > bestScore {
				bestScore = score
				bestValue = match
			}
		}
	})
	if bestValue != "" {
		return bestValue
	}
	text := normalizeText(scope.Text())
	for _, pattern := range datePatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

func (a *Analyzer) bestLink(scope *goquery.Selection, field FieldSpec, base *url.URL) string {
	var bestValue string
	bestScore := 0.4
	scope.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		if score := fieldScore(s, field); score > bestScore {
			bestScore = score
			bestValue = href
		}
	})
	if bestValue == "" {
		if href, ok := scope.Find("a[href]").First().Attr("href"); ok &&
			!strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "javascript:") {
			bestValue = href
		}
	}
	if bestValue == "" {
		return ""
	}
	return resolveURL(base, bestValue)
}

func (a *Analyzer) bestImage(scope *goquery.Selection, field FieldSpec, base *url.URL) string {
	var bestValue string
	bestScore := 0.3
	attrs := field.AttributePreferences
	if len(attrs) == 0 {
		attrs = []string{"src"}
	}
	scope.Find("img").Each(func(_ int, s *goquery.Selection) {
		var src string
		for _, attr := range attrs {
			if raw, ok := s.Attr(attr); ok && raw != "" {
				src = raw
				break
			}
		}
		if src == "" {
			return
		}
		if score := fieldScore(s, field); score > bestScore {
			bestScore = score
			bestValue = src
		}
	})
	if bestValue == "" {
		first := scope.Find("img").First()
		for _, attr := range attrs {
			if raw, ok := first.Attr(attr); ok && raw != "" {
				bestValue = raw
				break
			}
		}
	}
	if bestValue == "" {
		return ""
	}
	return resolveURL(base, bestValue)
}

func resolveURL(base *url.URL, raw string) string {
	if base == nil {
		return raw
	}
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}

func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
