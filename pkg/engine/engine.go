package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"prompt-scrape-go/pkg/models"
)

// Config controls engine behaviour. Intent is optional; when nil, planning
// is purely heuristic.
type Config struct {
	DefaultPageLimit  int
	MaxPageLimit      int
	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	MaxConcurrent     int
	Intent            IntentModel
}

// Engine runs the full scraping pipeline: plan, fetch, analyze, refine.
type Engine struct {
	planner  *Planner
	fetcher  *Fetcher
	analyzer *Analyzer
	refiner  *Refiner
	cfg      Config
	log      *zap.Logger
}

// New creates an engine.
func New(cfg Config, log *zap.Logger) *Engine {
	if cfg.DefaultPageLimit < 1 {
		cfg.DefaultPageLimit = 1
	}
	if cfg.MaxPageLimit < cfg.DefaultPageLimit {
		cfg.MaxPageLimit = cfg.DefaultPageLimit
	}
	return &Engine{
		planner:  NewPlanner(cfg.Intent, log),
		fetcher:  NewFetcher(cfg.HTTPTimeout, cfg.RequestsPerSecond, cfg.MaxConcurrent),
		analyzer: NewAnalyzer(),
		refiner:  NewRefiner(),
		cfg:      cfg,
		log:      log,
	}
}

// Run executes one scraping job end to end. Planner errors (empty prompt,
// missing URL) come back as errors; everything downstream is captured in the
// response's warnings and errors lists.
func (e *Engine) Run(ctx context.Context, prompt string, maxPages *int) (*models.ScrapeJobResponse, error) {
	jobPlan, err := e.planner.Plan(ctx, prompt, maxPages)
	if err != nil {
		return nil, err
	}

	limit := e.cfg.DefaultPageLimit
	if jobPlan.RequestedPages != nil {
		limit = *jobPlan.RequestedPages
	}
	if limit < 1 {
		limit = 1
	}
	if limit > e.cfg.MaxPageLimit {
		limit = e.cfg.MaxPageLimit
	}

	warnings := append([]string{}, jobPlan.Notes...)
	if jobPlan.Pagination == nil && limit > 1 && len(jobPlan.ExtraURLs) == 0 {
		warnings = append(warnings, "Pagination requested but no pagination pattern was detected; scraping only the seed URL.")
	}

	urls := jobPlan.ExpandURLs(limit)
	e.log.Info("running scrape job",
		zap.String("seed_url", jobPlan.SeedURL),
		zap.Int("page_count", len(urls)),
		zap.Int("field_count", len(jobPlan.Fields)),
	)

	pages, fetchStats := e.fetcher.FetchAll(ctx, urls)

	var (
		items      []*models.ScrapedItem
		errs       []string
		sourceURLs []string
	)
	for _, page := range pages {
		source := page.FinalURL
		if source == "" {
			source = page.URL
		}
		sourceURLs = append(sourceURLs, source)

		if !page.Success() {
			errs = append(errs, fmt.Sprintf("%s: %s", page.URL, page.Err))
			continue
		}

		pageItems, pageWarnings := e.analyzer.ExtractItems(page.HTML, jobPlan.Fields, source)
		for _, warning := range pageWarnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", page.URL, warning))
		}
		if len(pageItems) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no matching data located.", page.URL))
			continue
		}
		items = append(items, pageItems...)
	}

	cleaned, cleaningStats, cleaningWarnings := e.refiner.Refine(items, jobPlan.Fields)
	warnings = append(warnings, cleaningWarnings...)

	if cleaned == nil {
		cleaned = []*models.ScrapedItem{}
	}
	if errs == nil {
		errs = []string{}
	}
	if sourceURLs == nil {
		sourceURLs = []string{}
	}

	return &models.ScrapeJobResponse{
		Plan:     jobPlan.Summary(),
		Items:    cleaned,
		Warnings: warnings,
		Errors:   errs,
		Metadata: e.buildMetadata(jobPlan, cleaned, sourceURLs, fetchStats, cleaningStats),
	}, nil
}

func (e *Engine) buildMetadata(
	jobPlan *plan,
	items []*models.ScrapedItem,
	sourceURLs []string,
	fetchStats FetchStats,
	cleaningStats CleaningStats,
) models.ScrapeMetadata {
	coverage := orderedmap.New[string, float64]()
	for _, field := range jobPlan.Fields {
		if len(items) == 0 {
			coverage.Set(field.Name, 0.0)
			continue
		}
		hits := 0
		for _, item := range items {
			if value, ok := item.Field(field.Name); ok && value != "" {
				hits++
			}
		}
		ratio := float64(hits) / float64(len(items))
		coverage.Set(field.Name, math.Round(ratio*1000)/1000)
	}

	extra := orderedmap.New[string, models.MetaValue]()
	if raw, err := json.Marshal(fetchStats); err == nil {
		extra.Set("fetch", models.MetaValueFromRaw(raw))
	}
	if raw, err := json.Marshal(cleaningStats); err == nil {
		extra.Set("cleaning", models.MetaValueFromRaw(raw))
	}

	return models.ScrapeMetadata{
		ItemCount:     len(items),
		SourceURLs:    sourceURLs,
		FieldCoverage: coverage,
		Extra:         extra,
	}
}
