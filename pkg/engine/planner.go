package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"prompt-scrape-go/pkg/models"
)

// Request errors the server maps to HTTP 400.
var (
	ErrEmptyPrompt = errors.New("Prompt cannot be empty.")
	ErrNoURL       = errors.New("No URL found in the request. Please include at least one URL.")
)

var (
	urlRe          = regexp.MustCompile(`(?i)https?://[^\s]+`)
	pageRangeRe    = regexp.MustCompile(`(?i)(?:first|top)\s+(\d+)\s+pages?`)
	genericPagesRe = regexp.MustCompile(`(?i)(\d+)\s+pages?`)
	tokenRe        = regexp.MustCompile(`[a-zA-Z0-9]+`)
	pathPageRe     = regexp.MustCompile(`/page/(\d+)`)
)

// Planner translates natural language prompts into actionable scraping plans.
// It always runs keyword heuristics against the field library; an optional
// intent model refines the heuristic suggestion when one is configured.
type Planner struct {
	library       []FieldSpec
	defaultFields []string
	intent        IntentModel
	log           *zap.Logger
}

// NewPlanner creates a planner over the built-in field library. intent may
// be nil, in which case planning is purely heuristic.
func NewPlanner(intent IntentModel, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{
		library:       defaultFieldLibrary(),
		defaultFields: []string{"title", "description", "url"},
		intent:        intent,
		log:           log,
	}
}

// Plan builds a scraping plan from the prompt: the heuristic suggestion is
// merged with the intent model's, then maxPages, when non-nil, overrides
// whatever page count either side produced.
func (p *Planner) Plan(ctx context.Context, prompt string, maxPages *int) (*plan, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	intent := p.heuristicIntent(prompt, maxPages)
	intent.Merge(p.queryIntentModel(ctx, prompt))
	if maxPages != nil {
		intent.MaxPages = maxPages
	}
	if intent.SeedURL == "" {
		return nil, ErrNoURL
	}

	fields := p.resolveFields(intent.FieldNames)
	if len(fields) == 0 {
		for _, name := range p.defaultFields {
			if spec, ok := p.lookup(name); ok {
				fields = append(fields, spec)
			}
		}
	}

	pagination := inferPagination(intent.SeedURL)

	return &plan{
		SeedURL:        intent.SeedURL,
		Fields:         fields,
		Description:    buildDescription(intent.SeedURL, fields, pagination, intent.MaxPages, intent.Interactions),
		ExtraURLs:      intent.ExtraURLs,
		Interactions:   intent.Interactions,
		Pagination:     pagination,
		RequestedPages: intent.MaxPages,
		Notes:          intent.Notes,
	}, nil
}

// heuristicIntent runs the keyword heuristics and packages the result as a
// suggestion the model's answer can be merged into.
func (p *Planner) heuristicIntent(prompt string, maxPages *int) *IntentSuggestion {
	requested := maxPages
	if requested == nil {
		requested = inferRequestedPages(prompt)
	}

	suggestion := &IntentSuggestion{
		MaxPages:     requested,
		Interactions: inferInteractions(prompt),
	}

	urls := extractURLs(prompt)
	if len(urls) > 0 {
		suggestion.SeedURL = urls[0]
		suggestion.ExtraURLs = urls[1:]
	} else {
		suggestion.Notes = append(suggestion.Notes, "Heuristic planner could not detect a URL.")
	}

	for _, spec := range p.inferFields(prompt) {
		suggestion.FieldNames = append(suggestion.FieldNames, spec.Name)
	}
	return suggestion
}

// queryIntentModel asks the configured model for a suggestion. Any failure
// degrades to heuristic-only planning.
func (p *Planner) queryIntentModel(ctx context.Context, prompt string) *IntentSuggestion {
	if p.intent == nil {
		return nil
	}
	suggestion, err := p.intent.Analyze(ctx, prompt)
	if err != nil {
		p.log.Warn("intent model failed; falling back to heuristic planning", zap.Error(err))
		return nil
	}
	if suggestion != nil {
		suggestion.Notes = append(suggestion.Notes, "Intent derived from language model analysis.")
	}
	return suggestion
}

// resolveFields maps suggested field names onto the library, by name first
// and then by synonym. Names the library does not know are dropped.
func (p *Planner) resolveFields(names []string) []FieldSpec {
	var resolved []FieldSpec
	has := func(name string) bool {
		for _, spec := range resolved {
			if spec.Name == name {
				return true
			}
		}
		return false
	}

	for _, name := range names {
		lowered := strings.ToLower(name)
		if spec, ok := p.lookup(lowered); ok {
			if !has(spec.Name) {
				resolved = append(resolved, spec)
			}
			continue
		}
		for _, spec := range p.library {
			if has(spec.Name) {
				continue
			}
			if containsString(spec.Synonyms, lowered) {
				resolved = append(resolved, spec)
				break
			}
		}
	}
	return resolved
}

func (p *Planner) lookup(name string) (FieldSpec, bool) {
	for _, spec := range p.library {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

func extractURLs(prompt string) []string {
	var urls []string
	for _, match := range urlRe.FindAllString(prompt, -1) {
		urls = append(urls, strings.TrimRight(match, `.,)'"`))
	}
	return urls
}

// inferFields selects library fields whose name or synonyms appear in the
// prompt, in library order. A comma-separated list preceding "from" is used
// as an extra hint.
func (p *Planner) inferFields(prompt string) []FieldSpec {
	lowered := strings.ToLower(prompt)
	tokens := make(map[string]struct{})
	for _, token := range tokenRe.FindAllString(lowered, -1) {
		tokens[token] = struct{}{}
	}

	var selected []FieldSpec
	has := func(name string) bool {
		for _, spec := range selected {
			if spec.Name == name {
				return true
			}
		}
		return false
	}

	for _, spec := range p.library {
		if _, ok := tokens[spec.Name]; ok {
			selected = append(selected, spec)
			continue
		}
		for _, synonym := range spec.Synonyms {
			if _, ok := tokens[synonym]; ok {
				selected = append(selected, spec)
				break
			}
		}
	}

	beforeFrom := strings.SplitN(lowered, " from ", 2)[0]
	for _, candidate := range regexp.MustCompile(`[,/]| and `).Split(beforeFrom, -1) {
		words := strings.Fields(strings.TrimSpace(candidate))
		if len(words) == 0 {
			continue
		}
		last := words[len(words)-1]
		for _, spec := range p.library {
			if has(spec.Name) {
				continue
			}
			for _, synonym := range spec.Synonyms {
				if last == synonym {
					selected = append(selected, spec)
					break
				}
			}
		}
	}

	return selected
}

func inferRequestedPages(prompt string) *int {
	if match := pageRangeRe.FindStringSubmatch(prompt); match != nil {
		n, _ := strconv.Atoi(match[1])
		return &n
	}
	if match := genericPagesRe.FindStringSubmatch(prompt); match != nil {
		n, _ := strconv.Atoi(match[1])
		return &n
	}
	return nil
}

func inferInteractions(prompt string) []models.InteractionStep {
	lowered := strings.ToLower(prompt)
	var interactions []models.InteractionStep

	if containsAny(lowered, "scroll", "infinite", "load more", "keep loading") {
		interactions = append(interactions, models.InteractionStep{
			Kind:   "scroll",
			Count:  5,
			WaitMs: 400,
			Note:   strPtr("Auto-scroll inferred from prompt."),
		})
	}
	if strings.Contains(lowered, "wait") && containsAny(lowered, "appear", "render", "load") {
		interactions = append(interactions, models.InteractionStep{
			Kind:   "wait",
			Count:  1,
			WaitMs: 1500,
			Note:   strPtr("Extra wait inferred from prompt."),
		})
	}
	if strings.Contains(lowered, "click") && strings.Contains(lowered, "more") {
		interactions = append(interactions, models.InteractionStep{
			Kind:     "click",
			Count:    1,
			Selector: strPtr("text=Load more"),
			Note:     strPtr("Attempt to click 'Load more'."),
		})
	}

	return interactions
}

// inferPagination detects page query parameters or /page/N path segments in
// the seed URL.
func inferPagination(seedURL string) *models.PaginationPlan {
	parsed, err := url.Parse(seedURL)
	if err != nil {
		return nil
	}

	query := parsed.Query()
	for _, candidate := range []string{"page", "p", "pg"} {
		if !query.Has(candidate) {
			continue
		}
		start := 1
		if n, err := strconv.Atoi(query.Get(candidate)); err == nil {
			start = n
		}
		parameter := candidate
		return &models.PaginationPlan{
			Mode:      "query",
			Parameter: &parameter,
			Start:     start,
			Step:      1,
		}
	}

	if match := pathPageRe.FindStringSubmatchIndex(parsed.Path); match != nil {
		start, _ := strconv.Atoi(parsed.Path[match[2]:match[3]])
		template := parsed.Path[:match[2]] + "{page}" + parsed.Path[match[3]:]
		return &models.PaginationPlan{
			Mode:     "path",
			Template: &template,
			Start:    start,
			Step:     1,
		}
	}

	return nil
}

func buildDescription(
	seedURL string,
	fields []FieldSpec,
	pagination *models.PaginationPlan,
	requestedPages *int,
	interactions []models.InteractionStep,
) string {
	names := make([]string, len(fields))
	for i, spec := range fields {
		names[i] = spec.Name
	}
	parts := []string{fmt.Sprintf("Extract %s from %s", strings.Join(names, ", "), seedURL)}
	if pagination != nil {
		parts = append(parts, "scan paginated content")
	}
	if requestedPages != nil && *requestedPages > 0 {
		parts = append(parts, fmt.Sprintf("limit to %d page(s)", *requestedPages))
	}
	if len(interactions) > 0 {
		kinds := make([]string, len(interactions))
		for i, step := range interactions {
			kinds[i] = step.Kind
		}
		parts = append(parts, "pre-actions: "+strings.Join(kinds, ", "))
	}
	return strings.Join(parts, "; ")
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}
