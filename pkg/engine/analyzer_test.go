package engine

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productListingHTML = `<!DOCTYPE html>
<html><body>
<header class="site-header"><a href="/">Home</a></header>
<ul>
  <li class="product-card">
    <h2 class="product-name">Aurora Lamp</h2>
    <span class="price">$49.99</span>
    <a class="product-link" href="/products/aurora-lamp">View</a>
  </li>
  <li class="product-card">
    <h2 class="product-name">Basalt Mug</h2>
    <span class="price">$18.50</span>
    <a class="product-link" href="/products/basalt-mug">View</a>
  </li>
  <li class="product-card">
    <h2 class="product-name">Cedar Shelf</h2>
    <span class="price">$120</span>
    <a class="product-link" href="/products/cedar-shelf">View</a>
  </li>
</ul>
</body></html>`

func testFields(names ...string) []FieldSpec {
	library := defaultFieldLibrary()
	var fields []FieldSpec
	for _, name := range names {
		for _, spec := range library {
			if spec.Name == name {
				fields = append(fields, spec)
			}
		}
	}
	return fields
}

func TestExtractItemsRepeatingLayout(t *testing.T) {
	analyzer := NewAnalyzer()
	fields := testFields("name", "price", "url")

	items, warnings := analyzer.ExtractItems(productListingHTML, fields, "https://shop.example")
	assert.Empty(t, warnings)
	require.Len(t, items, 3)

	name, _ := items[0].Field("name")
	assert.Equal(t, "Aurora Lamp", name)

	price, _ := items[0].Field("price")
	assert.Equal(t, "$49.99", price)

	// Relative links resolve against the page URL.
	link, _ := items[0].Field("url")
	assert.Equal(t, "https://shop.example/products/aurora-lamp", link)

	name2, _ := items[2].Field("name")
	assert.Equal(t, "Cedar Shelf", name2)
}

func TestExtractItemsWholePageFallback(t *testing.T) {
	analyzer := NewAnalyzer()
	fields := testFields("title")

	html := `<html><body><h1 class="title">Single Article</h1><p>body text</p></body></html>`
	items, warnings := analyzer.ExtractItems(html, fields, "https://example.com")

	require.Len(t, warnings, 1)
	assert.Equal(t, "No repeating layout detected; falling back to whole-page extraction.", warnings[0])

	require.Len(t, items, 1)
	title, _ := items[0].Field("title")
	assert.Equal(t, "Single Article", title)
}

func TestExtractItemsNothingFound(t *testing.T) {
	analyzer := NewAnalyzer()
	fields := testFields("price")

	html := `<html><body><p>nothing for sale here</p></body></html>`
	items, _ := analyzer.ExtractItems(html, fields, "https://example.com")
	assert.Empty(t, items)
}

func TestExtractItemsImageResolution(t *testing.T) {
	analyzer := NewAnalyzer()
	fields := testFields("name", "image")

	html := `<html><body><ul>
	<li class="card"><span class="name">One</span><img class="thumbnail" src="/img/one.jpg"></li>
	<li class="card"><span class="name">Two</span><img class="thumbnail" data-src="/img/two.jpg"></li>
	</ul></body></html>`

	items, _ := analyzer.ExtractItems(html, fields, "https://example.com/catalog")
	require.Len(t, items, 2)

	one, _ := items[0].Field("image")
	assert.Equal(t, "https://example.com/img/one.jpg", one)

	two, _ := items[1].Field("image")
	assert.Equal(t, "https://example.com/img/two.jpg", two)
}

func TestFieldScore(t *testing.T) {
	// Covered indirectly above; the scoring tiers matter for tie-breaks.
	doc := parseFragment(t, `<span class="price">$5</span>`)
	spec := testFields("price")[0]
	assert.Equal(t, 1.0, fieldScore(doc, spec))

	partial := parseFragment(t, `<span class="prices">$5</span>`)
	assert.Equal(t, 0.75, fieldScore(partial, spec))

	unrelated := parseFragment(t, `<span class="banner">$5</span>`)
	assert.Equal(t, 0.0, fieldScore(unrelated, spec))
}

func parseFragment(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find("span").First()
}
