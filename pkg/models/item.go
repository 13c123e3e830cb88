package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ScrapedItem is one extracted record: a flat mapping from field name to
// string value. The backend emits schema-less records, so every item may
// expose a different key set and key order is display-significant. The
// ordered map keeps keys in the order the backend produced them.
type ScrapedItem struct {
	*orderedmap.OrderedMap[string, string]
}

// NewScrapedItem creates an empty item.
func NewScrapedItem() *ScrapedItem {
	return &ScrapedItem{orderedmap.New[string, string]()}
}

// ItemFromPairs builds an item from alternating key/value arguments.
// Used by the engine and by tests.
func ItemFromPairs(pairs ...string) *ScrapedItem {
	it := NewScrapedItem()
	for i := 0; i+1 < len(pairs); i += 2 {
		it.Set(pairs[i], pairs[i+1])
	}
	return it
}

// FieldNames returns the item's keys in insertion order.
func (it *ScrapedItem) FieldNames() []string {
	if it == nil || it.OrderedMap == nil {
		return nil
	}
	names := make([]string, 0, it.Len())
	for pair := it.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Field returns the value for a field name and whether the item carries it.
func (it *ScrapedItem) Field(name string) (string, bool) {
	if it == nil || it.OrderedMap == nil {
		return "", false
	}
	return it.Get(name)
}

// UnmarshalJSON decodes a JSON object while preserving its key order.
func (it *ScrapedItem) UnmarshalJSON(data []byte) error {
	if it.OrderedMap == nil {
		it.OrderedMap = orderedmap.New[string, string]()
	}
	return it.OrderedMap.UnmarshalJSON(data)
}

// MarshalJSON encodes the item with keys in insertion order.
func (it *ScrapedItem) MarshalJSON() ([]byte, error) {
	if it == nil || it.OrderedMap == nil {
		return []byte("{}"), nil
	}
	return it.OrderedMap.MarshalJSON()
}
