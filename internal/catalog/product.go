// Package catalog defines the canonical product model and the pure functions
// that turn raw feed records into it: text classification, numeric cleanup
// and slug/keyword derivation.
package catalog

import (
	"strings"
	"unicode"
)

// maxPathLength caps the URL slug derived from a product title.
const maxPathLength = 100

// minKeywordLength is exclusive: title tokens must be longer than this to
// become keywords.
const minKeywordLength = 2

// Product is the canonical unit of truth synchronized to the destination
// store. Optional numeric fields are pointers so "absent" stays distinct
// from zero.
type Product struct {
	ExternalID  string   `json:"externalId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Material    string   `json:"material"`
	Price       float64  `json:"price"`
	OldPrice    *float64 `json:"oldPrice,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	ImageURL    string   `json:"imageUrl"`
	ProductURL  string   `json:"productUrl"`
	Shop        string   `json:"shop"`
	InStock     bool     `json:"inStock"`
	StockCount  *int     `json:"stockCount,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Keywords    []string `json:"keywords"`
	Path        string   `json:"path"`
	FeedSource  string   `json:"feedSource"`
}

// Slugify derives the URL-safe path segment for a product title:
// lowercased, every character outside a-z0-9 and space stripped, space runs
// collapsed to single hyphens, truncated to 100 characters.
func Slugify(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > maxPathLength {
		slug = slug[:maxPathLength]
		slug = strings.TrimRight(slug, "-")
	}
	return slug
}

// Keywords derives the keyword list from a title: whitespace-separated
// tokens longer than two characters, case preserved, feed order preserved.
func Keywords(title string) []string {
	var keywords []string
	for _, token := range strings.Fields(title) {
		if len([]rune(token)) > minKeywordLength {
			keywords = append(keywords, token)
		}
	}
	return keywords
}
