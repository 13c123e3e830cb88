package engine

import (
	"net/url"
	"strconv"
	"strings"

	"prompt-scrape-go/pkg/models"
)

// plan is the engine's working strategy for one job. Summary() converts it
// to the wire shape exposed to clients.
type plan struct {
	SeedURL        string
	Fields         []FieldSpec
	Description    string
	ExtraURLs      []string
	Interactions   []models.InteractionStep
	Pagination     *models.PaginationPlan
	RequestedPages *int
	Notes          []string
}

// Summary reduces the plan to the wire shape: field names only.
func (p *plan) Summary() models.ScrapePlan {
	names := make([]string, len(p.Fields))
	for i, spec := range p.Fields {
		names[i] = spec.Name
	}
	extras := p.ExtraURLs
	if extras == nil {
		extras = []string{}
	}
	interactions := p.Interactions
	if interactions == nil {
		interactions = []models.InteractionStep{}
	}
	notes := p.Notes
	if notes == nil {
		notes = []string{}
	}
	return models.ScrapePlan{
		SeedURL:            p.SeedURL,
		Fields:             names,
		Description:        p.Description,
		ExtraURLs:          extras,
		Interactions:       interactions,
		Pagination:         p.Pagination,
		RequestedPageCount: p.RequestedPages,
		Notes:              notes,
	}
}

// ExpandURLs expands the plan into the concrete URL list to visit: the
// paginated seed first, then explicitly requested extras, deduplicated in
// order and capped at limit.
func (p *plan) ExpandURLs(limit int) []string {
	if limit < 1 {
		limit = 1
	}

	var urls []string
	if p.Pagination != nil {
		urls = append(urls, paginationURLs(p.Pagination, p.SeedURL, limit)...)
	}
	if len(urls) == 0 {
		urls = append(urls, p.SeedURL)
	}
	for _, extra := range p.ExtraURLs {
		if len(urls) >= limit {
			break
		}
		urls = append(urls, extra)
	}

	seen := make(map[string]struct{})
	ordered := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		ordered = append(ordered, u)
		if len(ordered) >= limit {
			break
		}
	}
	if len(ordered) == 0 {
		return []string{p.SeedURL}
	}
	return ordered
}

// paginationURLs generates paginated URLs up to limit.
func paginationURLs(pg *models.PaginationPlan, baseURL string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	step := pg.Step
	if step == 0 {
		step = 1
	}

	var urls []string
	for offset := 0; offset < limit; offset++ {
		page := pg.Start + offset*step
		switch {
		case pg.Mode == "query" && pg.Parameter != nil:
			urls = append(urls, queryPageURL(baseURL, *pg.Parameter, page))
		case pg.Mode == "path" && pg.Template != nil:
			urls = append(urls, pathPageURL(baseURL, *pg.Template, page))
		default:
			return urls
		}
	}
	return urls
}

func queryPageURL(baseURL, parameter string, page int) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	query := parsed.Query()
	query.Set(parameter, strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func pathPageURL(baseURL, template string, page int) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	parsed.Path = strings.Replace(template, "{page}", strconv.Itoa(page), 1)
	return parsed.String()
}
