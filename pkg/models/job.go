package models

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// InteractionStep describes one browser automation action the backend executed
// before extraction.
type InteractionStep struct {
	Kind     string  `json:"kind"`
	Selector *string `json:"selector"`
	Count    int     `json:"count"`
	WaitMs   int     `json:"wait_ms"`
	Value    *string `json:"value"`
	Note     *string `json:"note"`
}

// PaginationPlan is the backend's pagination strategy: either a query
// parameter ("query" mode) or a path template ("path" mode).
type PaginationPlan struct {
	Mode      string  `json:"mode"`
	Parameter *string `json:"parameter"`
	Template  *string `json:"template"`
	Start     int     `json:"start"`
	Step      int     `json:"step"`
}

// ScrapePlan is the backend-produced description of how a scrape was executed.
type ScrapePlan struct {
	SeedURL            string            `json:"seed_url"`
	Fields             []string          `json:"fields"`
	Description        string            `json:"description"`
	ExtraURLs          []string          `json:"extra_urls"`
	Interactions       []InteractionStep `json:"interactions"`
	Pagination         *PaginationPlan   `json:"pagination"`
	RequestedPageCount *int              `json:"requested_page_count"`
	Notes              []string          `json:"notes"`
}

// ScrapeMetadata accompanies the item collection. item_count, source_urls and
// field_coverage are well-known keys; anything else the backend attaches is
// kept, in arrival order, under Extra with its shape intact.
type ScrapeMetadata struct {
	ItemCount     int
	SourceURLs    []string
	FieldCoverage *orderedmap.OrderedMap[string, float64]
	Extra         *orderedmap.OrderedMap[string, MetaValue]
}

// UnmarshalJSON splits the metadata object into the well-known keys and the
// ordered remainder.
func (m *ScrapeMetadata) UnmarshalJSON(data []byte) error {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}

	m.FieldCoverage = orderedmap.New[string, float64]()
	m.Extra = orderedmap.New[string, MetaValue]()

	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case "item_count":
			if err := json.Unmarshal(pair.Value, &m.ItemCount); err != nil {
				return err
			}
		case "source_urls":
			if err := json.Unmarshal(pair.Value, &m.SourceURLs); err != nil {
				return err
			}
		case "field_coverage":
			if err := m.FieldCoverage.UnmarshalJSON(pair.Value); err != nil {
				return err
			}
		default:
			m.Extra.Set(pair.Key, MetaValueFromRaw(pair.Value))
		}
	}
	return nil
}

// MarshalJSON writes the well-known keys first, then the extras in order.
func (m ScrapeMetadata) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, json.RawMessage]()

	count, err := json.Marshal(m.ItemCount)
	if err != nil {
		return nil, err
	}
	out.Set("item_count", count)

	urls := m.SourceURLs
	if urls == nil {
		urls = []string{}
	}
	urlsRaw, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}
	out.Set("source_urls", urlsRaw)

	coverage := m.FieldCoverage
	if coverage == nil {
		coverage = orderedmap.New[string, float64]()
	}
	coverageRaw, err := coverage.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out.Set("field_coverage", coverageRaw)

	if m.Extra != nil {
		for pair := m.Extra.Oldest(); pair != nil; pair = pair.Next() {
			raw, err := pair.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			out.Set(pair.Key, raw)
		}
	}

	return out.MarshalJSON()
}

// ScrapeJobResponse is the backend's answer to one submitted job. It is held
// as the current view state until replaced by the next submission or cleared
// by an error; nothing mutates it after receipt.
type ScrapeJobResponse struct {
	Plan     ScrapePlan     `json:"plan"`
	Items    []*ScrapedItem `json:"items"`
	Warnings []string       `json:"warnings"`
	Errors   []string       `json:"errors"`
	Metadata ScrapeMetadata `json:"metadata"`
}
