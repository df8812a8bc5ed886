package catalog

import "strings"

// Category labels of the closed classification vocabulary.
const (
	CategoryOreringe   = "Øreringe"
	CategoryRinge      = "Ringe"
	CategoryArmbaand   = "Armbånd"
	CategoryVedhaeng   = "Vedhæng"
	CategoryHalskaeder = "Halskæder"
	CategoryOrestikker = "Ørestikker"
)

// Material labels of the closed classification vocabulary.
const (
	MaterialGuld    = "Guld"
	MaterialSoelv   = "Sølv"
	MaterialDiamant = "Diamant"
	MaterialPerle   = "Perle"
)

// FallbackBrand is the generic placeholder when nothing identifies a brand.
const FallbackBrand = "Diverse"

// keywordSet maps one label to the substrings that indicate it.
type keywordSet struct {
	label    string
	keywords []string
}

// categoryTable is checked top to bottom, first match wins. The ordering is
// part of the contract: earring terms must be checked before the bare "ring"
// set, because "øreringe" and "armring" contain "ring" as a substring.
var categoryTable = []keywordSet{
	{label: CategoryOrestikker, keywords: []string{"ørestik"}},
	{label: CategoryOreringe, keywords: []string{"ørering", "creol", "earring"}},
	{label: CategoryHalskaeder, keywords: []string{"halskæde", "necklace", "collier"}},
	{label: CategoryArmbaand, keywords: []string{"armbånd", "armring", "bracelet", "bangle"}},
	{label: CategoryVedhaeng, keywords: []string{"vedhæng", "pendant", "charm"}},
	{label: CategoryRinge, keywords: []string{"ring"}},
}

// materialTable is checked top to bottom, first match wins. Guld before
// Perle so "Guld øreringe med perle" classifies as gold.
var materialTable = []keywordSet{
	{label: MaterialGuld, keywords: []string{"guld", "gold", "karat"}},
	{label: MaterialDiamant, keywords: []string{"diamant", "diamond", "brillant"}},
	{label: MaterialPerle, keywords: []string{"perle", "pearl"}},
	{label: MaterialSoelv, keywords: []string{"sølv", "silver", "sterling"}},
}

// knownBrands is the fixed brand table used for substring fallback matching
// when the feed carries no usable brand field.
var knownBrands = []string{
	"Pandora",
	"Georg Jensen",
	"Julie Sandlau",
	"Sif Jakobs",
	"Spinning Jewelry",
	"Dyrberg/Kern",
	"Maanesten",
	"Pilgrim",
	"Christina Jewelry",
	"Joanli Nor",
	"Nordahl Andersen",
	"Støvring Design",
	"Aagaard",
	"Scrouples",
	"Blomdahl",
	"Pernille Corydon",
	"Jane Kønig",
}

// unknownBrandMarkers are placeholder values some feeds put in the brand
// field instead of leaving it out.
var unknownBrandMarkers = map[string]bool{
	"":        true,
	"-":       true,
	"n/a":     true,
	"na":      true,
	"ukendt":  true,
	"unknown": true,
	"ingen":   true,
}

// matchKeywordTable returns the first label whose keyword set matches the
// case-folded text, or the fallback when nothing matches.
func matchKeywordTable(table []keywordSet, text, fallback string) string {
	folded := strings.ToLower(text)
	for _, set := range table {
		for _, kw := range set.keywords {
			if strings.Contains(folded, kw) {
				return set.label
			}
		}
	}
	return fallback
}

// ClassifyCategory infers the product category from free text (title plus
// description). Unmatched text lands in the generic accessory bucket.
func ClassifyCategory(text string) string {
	return matchKeywordTable(categoryTable, text, CategoryVedhaeng)
}

// ClassifyMaterial infers the dominant material from free text.
func ClassifyMaterial(text string) string {
	return matchKeywordTable(materialTable, text, MaterialSoelv)
}

// BrandFields carries the record fields the brand classifier inspects.
type BrandFields struct {
	Brand       string // explicit brand field, possibly a placeholder
	Shop        string // reseller display name
	Title       string
	Description string
	URL         string
}

// ClassifyBrand resolves a product's brand:
//  1. an explicit brand field wins, unless it is a recognized placeholder;
//  2. otherwise the fixed brand table is substring-matched against brand,
//     shop, title, description and URL;
//  3. otherwise the reseller name is used verbatim;
//  4. otherwise the generic placeholder label.
func ClassifyBrand(f BrandFields) string {
	explicit := strings.TrimSpace(f.Brand)
	if explicit != "" && !unknownBrandMarkers[strings.ToLower(explicit)] {
		return explicit
	}

	haystack := strings.ToLower(strings.Join([]string{f.Brand, f.Shop, f.Title, f.Description, f.URL}, " "))
	for _, brand := range knownBrands {
		if strings.Contains(haystack, strings.ToLower(brand)) {
			return brand
		}
	}

	if shop := strings.TrimSpace(f.Shop); shop != "" {
		return shop
	}

	return FallbackBrand
}
