package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"prompt-scrape-go/pkg/models"
)

// IntentModel discovers scraping intent from a natural language prompt.
// Implementations return (nil, nil) when they choose to skip the prompt;
// errors make the planner fall back to its heuristic suggestion.
type IntentModel interface {
	Analyze(ctx context.Context, prompt string) (*IntentSuggestion, error)
}

// IntentSuggestion is one source's view of what a prompt asks for. The
// planner builds a heuristic suggestion and merges model suggestions into it.
type IntentSuggestion struct {
	SeedURL      string
	ExtraURLs    []string
	FieldNames   []string
	MaxPages     *int
	Interactions []models.InteractionStep
	Notes        []string
}

// Merge folds other into s. The other side wins on seed URL and page count;
// URL and field lists are unioned preserving first occurrence; interactions
// merge by (kind, selector, value) with the other side overwriting; notes
// are appended.
func (s *IntentSuggestion) Merge(other *IntentSuggestion) {
	if other == nil {
		return
	}
	if other.SeedURL != "" {
		s.SeedURL = other.SeedURL
	}
	s.ExtraURLs = dedupeStrings(s.ExtraURLs, other.ExtraURLs)
	s.FieldNames = dedupeStrings(s.FieldNames, other.FieldNames)
	if other.MaxPages != nil {
		s.MaxPages = other.MaxPages
	}
	s.Interactions = mergeInteractions(s.Interactions, other.Interactions)
	s.Notes = append(s.Notes, other.Notes...)
}

func dedupeStrings(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, value := range list {
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			out = append(out, value)
		}
	}
	return out
}

// mergeInteractions unions the two step lists keyed by (kind, selector,
// value): a later step with the same key replaces the earlier one in place.
func mergeInteractions(base, extra []models.InteractionStep) []models.InteractionStep {
	type stepKey struct {
		kind, selector, value string
	}
	keyOf := func(step models.InteractionStep) stepKey {
		k := stepKey{kind: step.Kind}
		if step.Selector != nil {
			k.selector = *step.Selector
		}
		if step.Value != nil {
			k.value = *step.Value
		}
		return k
	}

	index := make(map[stepKey]int)
	var merged []models.InteractionStep
	for _, step := range append(append([]models.InteractionStep{}, base...), extra...) {
		k := keyOf(step)
		if i, ok := index[k]; ok {
			merged[i] = step
			continue
		}
		index[k] = len(merged)
		merged = append(merged, step)
	}
	return merged
}

const openAICompletionsURL = "https://api.openai.com/v1/chat/completions"

const openAISystemPrompt = "You are an assistant that converts natural language scraping requests " +
	"into structured extraction plans. Return JSON with keys seed_url, " +
	"additional_urls, fields, max_pages, interactions, and notes."

// OpenAIIntentModel asks OpenAI's Chat Completions API for a structured
// extraction plan. When no API key is configured Analyze returns (nil, nil)
// so heuristic planning takes over.
type OpenAIIntentModel struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewOpenAIIntentModel creates the model. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable; an empty model selects gpt-4o-mini.
func NewOpenAIIntentModel(apiKey, model string) *OpenAIIntentModel {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIIntentModel{
		apiKey:   apiKey,
		model:    model,
		endpoint: openAICompletionsURL,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string `json:"model"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// intentPayload is the JSON object the model is instructed to return.
type intentPayload struct {
	SeedURL        string   `json:"seed_url"`
	AdditionalURLs []string `json:"additional_urls"`
	Fields         []string `json:"fields"`
	MaxPages       *int     `json:"max_pages"`
	Interactions   []struct {
		Kind     string  `json:"kind"`
		Selector *string `json:"selector"`
		Value    *string `json:"value"`
		Note     *string `json:"note"`
		Count    int     `json:"count"`
		WaitMs   int     `json:"wait_ms"`
	} `json:"interactions"`
	Notes []string `json:"notes"`
}

// Analyze implements IntentModel.
func (m *OpenAIIntentModel) Analyze(ctx context.Context, prompt string) (*IntentSuggestion, error) {
	if m.apiKey == "" {
		return nil, nil
	}

	request := chatCompletionRequest{
		Model:       m.model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	request.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("intent request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("intent request failed with status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("intent response carried no choices")
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("parse intent payload: %w", err)
	}

	suggestion := suggestionFromPayload(payload)
	suggestion.Notes = append(suggestion.Notes, "Intent derived from OpenAI model response.")
	return suggestion, nil
}

// suggestionFromPayload sanitizes the model output: strings are trimmed,
// field names lowercased, interaction counts clamped to sane minimums and
// steps without a kind dropped.
func suggestionFromPayload(payload intentPayload) *IntentSuggestion {
	suggestion := &IntentSuggestion{
		SeedURL:  strings.TrimSpace(payload.SeedURL),
		MaxPages: payload.MaxPages,
	}
	for _, raw := range payload.AdditionalURLs {
		if url := strings.TrimSpace(raw); url != "" {
			suggestion.ExtraURLs = append(suggestion.ExtraURLs, url)
		}
	}
	for _, raw := range payload.Fields {
		if name := strings.ToLower(strings.TrimSpace(raw)); name != "" {
			suggestion.FieldNames = append(suggestion.FieldNames, name)
		}
	}
	for _, raw := range payload.Interactions {
		kind := strings.TrimSpace(raw.Kind)
		if kind == "" {
			continue
		}
		count := raw.Count
		if count < 1 {
			count = 1
		}
		waitMs := raw.WaitMs
		if waitMs < 0 {
			waitMs = 0
		}
		suggestion.Interactions = append(suggestion.Interactions, models.InteractionStep{
			Kind:     kind,
			Selector: trimmedPtr(raw.Selector),
			Count:    count,
			WaitMs:   waitMs,
			Value:    trimmedPtr(raw.Value),
			Note:     trimmedPtr(raw.Note),
		})
	}
	for _, raw := range payload.Notes {
		if note := strings.TrimSpace(raw); note != "" {
			suggestion.Notes = append(suggestion.Notes, note)
		}
	}
	return suggestion
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
