package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smykkeguiden/feedsync/internal/feed"
)

const testFeedURL = "https://feeds.example/programfeed?bannerid=42"

func buildRecord(fields map[string]string) feed.RawRecord {
	rec := feed.NewRawRecord()
	for name, value := range fields {
		rec.Add(name, value)
	}
	return rec
}

func validFields() map[string]string {
	return map[string]string{
		feed.FieldProductID:   "P-2001",
		feed.FieldTitle:       "Guld øreringe med perle",
		feed.FieldDescription: "Forgyldte øreringe med ferskvandsperle",
		feed.FieldNewPrice:    "499,00",
		feed.FieldOldPrice:    "699,00",
		feed.FieldProductURL:  "https://shop.example/p/2001",
		feed.FieldImageURL:    "https://shop.example/i/2001.jpg",
		feed.FieldShop:        "Smykkebutikken",
		feed.FieldStockCount:  "14",
		feed.FieldEAN:         "5712345678901",
	}
}

func TestNormalize_ValidRecord(t *testing.T) {
	t.Parallel()

	p, err := Normalize(buildRecord(validFields()), testFeedURL)
	require.NoError(t, err)

	assert.Equal(t, "P-2001", p.ExternalID)
	assert.Equal(t, "Guld øreringe med perle", p.Title)
	assert.Equal(t, 499.0, p.Price)
	require.NotNil(t, p.OldPrice)
	assert.Equal(t, 699.0, *p.OldPrice)
	require.NotNil(t, p.Discount)
	assert.Equal(t, 200.0, *p.Discount)

	assert.Equal(t, CategoryOreringe, p.Category)
	assert.Equal(t, MaterialGuld, p.Material)
	assert.Equal(t, "Smykkebutikken", p.Brand, "no explicit brand, reseller fallback")

	require.NotNil(t, p.StockCount)
	assert.Equal(t, 14, *p.StockCount)
	assert.True(t, p.InStock)

	assert.Equal(t, "5712345678901", p.SKU)
	assert.Equal(t, []string{"Guld", "øreringe", "med", "perle"}, p.Keywords)
	assert.Equal(t, "guld-reringe-med-perle", p.Path, "non a-z0-9 runes are stripped from the slug")
	assert.Equal(t, testFeedURL, p.FeedSource)
}

func TestNormalize_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{name: "missing title", mutate: func(f map[string]string) { delete(f, feed.FieldTitle) }},
		{name: "blank title", mutate: func(f map[string]string) { f[feed.FieldTitle] = "   " }},
		{name: "missing product id", mutate: func(f map[string]string) { delete(f, feed.FieldProductID) }},
		{name: "missing price", mutate: func(f map[string]string) { delete(f, feed.FieldNewPrice) }},
		{name: "zero price", mutate: func(f map[string]string) { f[feed.FieldNewPrice] = "0" }},
		{name: "negative price", mutate: func(f map[string]string) { f[feed.FieldNewPrice] = "-10,00" }},
		{name: "unparseable price", mutate: func(f map[string]string) { f[feed.FieldNewPrice] = "gratis" }},
		{name: "missing product url", mutate: func(f map[string]string) { delete(f, feed.FieldProductURL) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(fields)

			_, err := Normalize(buildRecord(fields), testFeedURL)
			require.Error(t, err)
			assert.True(t, IsRejection(err), "expected a rejection, got: %v", err)
		})
	}
}

func TestNormalize_Stock(t *testing.T) {
	t.Parallel()

	t.Run("textual marker maps to the sentinel count", func(t *testing.T) {
		fields := validFields()
		fields[feed.FieldStockCount] = "i lager"

		p, err := Normalize(buildRecord(fields), testFeedURL)
		require.NoError(t, err)
		require.NotNil(t, p.StockCount)
		assert.Equal(t, 999, *p.StockCount)
		assert.True(t, p.InStock)
	})

	t.Run("zero count means out of stock", func(t *testing.T) {
		fields := validFields()
		fields[feed.FieldStockCount] = "0"

		p, err := Normalize(buildRecord(fields), testFeedURL)
		require.NoError(t, err)
		require.NotNil(t, p.StockCount)
		assert.Equal(t, 0, *p.StockCount)
		assert.False(t, p.InStock)
	})

	t.Run("unparseable stock stays unknown and sellable", func(t *testing.T) {
		fields := validFields()
		fields[feed.FieldStockCount] = "ring og hør"

		p, err := Normalize(buildRecord(fields), testFeedURL)
		require.NoError(t, err)
		assert.Nil(t, p.StockCount, "unknown stock must not be conflated with zero")
		assert.True(t, p.InStock)
	})

	t.Run("absent stock field defaults to sellable", func(t *testing.T) {
		fields := validFields()
		delete(fields, feed.FieldStockCount)

		p, err := Normalize(buildRecord(fields), testFeedURL)
		require.NoError(t, err)
		assert.Nil(t, p.StockCount)
		assert.True(t, p.InStock)
	})
}

func TestNormalize_Discount(t *testing.T) {
	t.Parallel()

	t.Run("absent old price leaves discount absent", func(t *testing.T) {
		fields := validFields()
		delete(fields, feed.FieldOldPrice)

		p, err := Normalize(buildRecord(fields), testFeedURL)
		require.NoError(t, err)
		assert.Nil(t, p.OldPrice)
		assert.Nil(t, p.Discount)
	})

	t.Run("inverted price pair passes through as negative discount", func(t *testing.T) {
		fields := validFields()
		fields[feed.FieldNewPrice] = "699,00"
		fields[feed.FieldOldPrice] = "499,00"

		p, err := Normalize(buildRecord(fields), testFeedURL)
		require.NoError(t, err)
		require.NotNil(t, p.Discount)
		assert.Equal(t, -200.0, *p.Discount, "discount is never clamped")
	})
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "299,00", want: 299, wantOK: true},
		{in: "1.499,50", want: 1499.5, wantOK: true},
		{in: "1499.50", want: 1499.5, wantOK: true},
		{in: "1499", want: 1499, wantOK: true},
		{in: "1.499", want: 1499, wantOK: true},
		{in: "12.345.678", want: 12345678, wantOK: true},
		{in: "0.99", want: 0.99, wantOK: true},
		{in: " 42,95 ", want: 42.95, wantOK: true},
		{in: "", wantOK: false},
		{in: "abc", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseDecimal(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		if tt.wantOK {
			assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.in)
		}
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Guld øreringe med perle", want: "guld-reringe-med-perle"},
		{in: "Ring  med   mellemrum", want: "ring-med-mellemrum"},
		{in: "Sterling Sølv 925!", want: "sterling-slv-925"},
		{in: "ÆØÅ", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}

	long := Slugify("lang titel " + string(make([]byte, 0)) + "abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij")
	assert.LessOrEqual(t, len(long), 100)
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Guld", "øreringe", "med", "perle"}, Keywords("Guld øreringe med perle"))
	assert.Equal(t, []string{"Ring"}, Keywords("En Ring"), "tokens of two or fewer characters are dropped")
	assert.Empty(t, Keywords("å i ø"))
}
