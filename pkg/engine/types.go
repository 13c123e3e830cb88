package engine

// Value types a field can extract.
const (
	valueText    = "text"
	valueNumeric = "numeric"
	valueDate    = "date"
	valueLink    = "link"
	valueImage   = "image"
)

// FieldSpec describes a single logical field to extract from a page.
type FieldSpec struct {
	Name                 string
	Synonyms             []string
	ValueType            string
	AttributePreferences []string
	AllowPartial         bool
}

// PageContent is the outcome of fetching one page.
type PageContent struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
	Err        string
}

// Success reports whether the page yielded usable HTML.
func (p PageContent) Success() bool {
	return p.Err == "" && p.HTML != ""
}

// defaultFieldLibrary returns the built-in catalogue of supported fields.
// Order matters: it drives field order in inferred plans.
func defaultFieldLibrary() []FieldSpec {
	return []FieldSpec{
		{
			Name:      "title",
			Synonyms:  []string{"title", "headline", "heading"},
			ValueType: valueText,
		},
		{
			Name:      "name",
			Synonyms:  []string{"name", "names", "company", "product", "listing"},
			ValueType: valueText,
		},
		{
			Name:         "description",
			Synonyms:     []string{"description", "summary", "details", "overview", "about"},
			ValueType:    valueText,
			AllowPartial: true,
		},
		{
			Name:      "price",
			Synonyms:  []string{"price", "cost", "amount", "fee", "salary", "rate"},
			ValueType: valueNumeric,
		},
		{
			Name:      "rating",
			Synonyms:  []string{"rating", "score", "review", "stars", "rank"},
			ValueType: valueNumeric,
		},
		{
			Name:      "date",
			Synonyms:  []string{"date", "posted", "published", "updated", "time", "deadline"},
			ValueType: valueDate,
		},
		{
			Name:      "author",
			Synonyms:  []string{"author", "by", "creator", "writer", "seller"},
			ValueType: valueText,
		},
		{
			Name:      "location",
			Synonyms:  []string{"location", "city", "state", "country", "address", "region"},
			ValueType: valueText,
		},
		{
			Name:                 "url",
			Synonyms:             []string{"url", "link", "website", "websites", "href", "source"},
			ValueType:            valueLink,
			AttributePreferences: []string{"href"},
		},
		{
			Name:                 "image",
			Synonyms:             []string{"image", "photo", "thumbnail", "picture", "logo"},
			ValueType:            valueImage,
			AttributePreferences: []string{"src", "data-src", "data-original", "data-lazy"},
		},
		{
			Name:      "category",
			Synonyms:  []string{"category", "type", "tag", "genre", "sector"},
			ValueType: valueText,
		},
	}
}
