package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapedItemKeyOrder(t *testing.T) {
	t.Run("unmarshal preserves arrival order", func(t *testing.T) {
		var item ScrapedItem
		require.NoError(t, json.Unmarshal([]byte(`{"zebra":"1","apple":"2","mango":"3"}`), &item))
		assert.Equal(t, []string{"zebra", "apple", "mango"}, item.FieldNames())
	})

	t.Run("marshal round trip keeps order", func(t *testing.T) {
		item := ItemFromPairs("b", "2", "a", "1")
		data, err := json.Marshal(item)
		require.NoError(t, err)
		assert.Equal(t, `{"b":"2","a":"1"}`, string(data))
	})

	t.Run("nil map marshals to empty object", func(t *testing.T) {
		var item ScrapedItem
		data, err := item.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("field lookup", func(t *testing.T) {
		item := ItemFromPairs("name", "A")
		value, ok := item.Field("name")
		assert.True(t, ok)
		assert.Equal(t, "A", value)

		_, ok = item.Field("missing")
		assert.False(t, ok)
	})
}

func TestScrapeMetadataSplit(t *testing.T) {
	raw := `{
		"item_count": 4,
		"source_urls": ["https://a.example", "https://b.example"],
		"field_coverage": {"name": 1, "price": 0.25},
		"engine": "fallback",
		"duration_ms": 812
	}`

	var meta ScrapeMetadata
	require.NoError(t, json.Unmarshal([]byte(raw), &meta))

	assert.Equal(t, 4, meta.ItemCount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, meta.SourceURLs)

	name, ok := meta.FieldCoverage.Get("name")
	require.True(t, ok)
	assert.Equal(t, 1.0, name)

	// Unknown keys land in Extra, in arrival order.
	keys := make([]string, 0, meta.Extra.Len())
	for pair := meta.Extra.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"engine", "duration_ms"}, keys)

	engine, ok := meta.Extra.Get("engine")
	require.True(t, ok)
	assert.Equal(t, MetaString, engine.Kind)
	assert.Equal(t, "fallback", engine.Str)
}

func TestScrapeMetadataMarshalOrder(t *testing.T) {
	var meta ScrapeMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"item_count":1,"custom":"x","source_urls":[]}`), &meta))

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	// Well-known keys come first, extras keep their order after them.
	assert.JSONEq(t, `{"item_count":1,"source_urls":[],"field_coverage":{},"custom":"x"}`, string(data))
}

func TestMetaValueKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind MetaKind
	}{
		{"null", `null`, MetaNull},
		{"string", `"hello"`, MetaString},
		{"true", `true`, MetaBool},
		{"false", `false`, MetaBool},
		{"number", `3.25`, MetaNumber},
		{"negative number", `-7`, MetaNumber},
		{"array", `[1,2]`, MetaArray},
		{"object", `{"a":1}`, MetaObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MetaValueFromRaw(json.RawMessage(tt.raw))
			assert.Equal(t, tt.kind, v.Kind)
		})
	}
}

func TestMetaValueRoundTrip(t *testing.T) {
	raw := json.RawMessage(`{"nested":{"deep":[1,2,3]}}`)
	v := MetaValueFromRaw(raw)
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))
}

func TestScrapeJobResponseDecode(t *testing.T) {
	payload := `{
		"plan": {
			"seed_url": "https://example.com",
			"fields": ["name"],
			"description": "",
			"extra_urls": [],
			"interactions": [],
			"pagination": null,
			"requested_page_count": null,
			"notes": []
		},
		"items": [{"name": "A", "price": ""}],
		"warnings": [],
		"errors": [],
		"metadata": {"item_count": 1, "source_urls": ["https://example.com"], "field_coverage": {"name": 1}}
	}`

	var resp ScrapeJobResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	assert.Equal(t, "https://example.com", resp.Plan.SeedURL)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, []string{"name", "price"}, resp.Items[0].FieldNames())
}
