package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/smykkeguiden/feedsync/internal/feed"
)

// inStockSentinelCount is stored when a feed marks availability textually
// ("ja", "i lager") instead of giving a number.
const inStockSentinelCount = 999

// textualInStockMarkers are stock-field values meaning "in stock" without a
// usable count.
var textualInStockMarkers = map[string]bool{
	"ja":       true,
	"yes":      true,
	"i lager":  true,
	"på lager": true,
	"in stock": true,
}

// RejectionError reports why a raw record could not become a Product.
// Rejections are expected data-quality failures, not pipeline errors; the
// orchestrator logs them at warn level and moves on.
type RejectionError struct {
	Field  string // offending feed field
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("record rejected: %s (%s)", e.Reason, e.Field)
}

// IsRejection reports whether err is a normalization rejection.
func IsRejection(err error) bool {
	_, ok := err.(*RejectionError)
	return ok
}

// Normalize converts one raw feed record into a canonical Product.
//
// A record missing a title, a product id or a positive new price is rejected
// with a RejectionError; this is the pipeline's primary data-quality gate.
// Normalize performs no I/O and is deterministic given its inputs.
func Normalize(rec feed.RawRecord, feedURL string) (Product, error) {
	externalID, _ := rec.Get(feed.FieldProductID)
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return Product{}, &RejectionError{Field: feed.FieldProductID, Reason: "missing product id"}
	}

	title, _ := rec.Get(feed.FieldTitle)
	title = strings.TrimSpace(title)
	if title == "" {
		return Product{}, &RejectionError{Field: feed.FieldTitle, Reason: "missing title"}
	}

	priceText, _ := rec.Get(feed.FieldNewPrice)
	price, ok := parseDecimal(priceText)
	if !ok || price <= 0 {
		return Product{}, &RejectionError{Field: feed.FieldNewPrice, Reason: "missing or non-positive price"}
	}

	productURL, _ := rec.Get(feed.FieldProductURL)
	productURL = strings.TrimSpace(productURL)
	if productURL == "" {
		return Product{}, &RejectionError{Field: feed.FieldProductURL, Reason: "missing product url"}
	}

	description, _ := rec.Get(feed.FieldDescription)
	imageURL, _ := rec.Get(feed.FieldImageURL)
	shop, _ := rec.Get(feed.FieldShop)
	shop = strings.TrimSpace(shop)
	sku, _ := rec.Get(feed.FieldEAN)
	brandField, _ := rec.Get(feed.FieldBrand)

	p := Product{
		ExternalID:  externalID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Price:       price,
		ImageURL:    strings.TrimSpace(imageURL),
		ProductURL:  productURL,
		Shop:        shop,
		SKU:         strings.TrimSpace(sku),
		Keywords:    Keywords(title),
		Path:        Slugify(title),
		FeedSource:  feedURL,
	}

	// Old price and discount: derived only when the feed delivers an old
	// price. The subtraction is not clamped; inverted price
	// pairs from a feed produce a negative discount and are a feed data
	// quality issue, not a pipeline concern.
	if oldText, ok := rec.Get(feed.FieldOldPrice); ok {
		if oldPrice, ok := parseDecimal(oldText); ok && oldPrice > 0 {
			discount := oldPrice - p.Price
			p.OldPrice = &oldPrice
			p.Discount = &discount
		}
	}

	// Stock: a textual marker maps to a large sentinel count, a numeric
	// string parses as an integer, anything else leaves the count absent.
	// Unknown stock is not "definitely none": such products stay sellable.
	if stockText, ok := rec.Get(feed.FieldStockCount); ok {
		if count, ok := parseStockCount(stockText); ok {
			p.StockCount = &count
			p.InStock = count > 0
		} else {
			p.InStock = true
		}
	} else {
		p.InStock = true
	}

	classifyText := title + " " + p.Description
	p.Category = ClassifyCategory(classifyText)
	p.Material = ClassifyMaterial(classifyText)
	p.Brand = ClassifyBrand(BrandFields{
		Brand:       brandField,
		Shop:        shop,
		Title:       title,
		Description: p.Description,
		URL:         productURL,
	})

	return p, nil
}

// dotGroupedThousands matches Danish thousands grouping without a decimal
// part, e.g. "1.499" or "12.345.678".
var dotGroupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// parseDecimal parses a feed price. The provider mixes Danish formatting
// ("1.499,00") with plain decimals ("1499.00"); a comma is taken as the
// decimal separator and any dots before it as thousand separators. A value
// with dot-grouped thousands and no comma ("1.499") is grouping too, not a
// fraction.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") || dotGroupedThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseStockCount parses the stock field. Returns ok=false for values that
// are neither a numeric count nor a known textual in-stock marker.
func parseStockCount(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if textualInStockMarkers[s] {
		return inStockSentinelCount, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
