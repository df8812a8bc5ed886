package feed

import "strings"

// Well-known field names of the affiliate network's product feed.
// The provider publishes Danish element names; unknown extra fields are
// carried along untouched.
const (
	FieldProductID   = "produktid"
	FieldTitle       = "produktnavn"
	FieldDescription = "beskrivelse"
	FieldNewPrice    = "nypris"
	FieldOldPrice    = "glpris"
	FieldImageURL    = "billedurl"
	FieldProductURL  = "vareurl"
	FieldShop        = "forhandler"
	FieldCategory    = "kategorinavn"
	FieldStockCount  = "lagerantal"
	FieldEAN         = "ean"
	FieldBrand       = "brand"
)

// RawRecord is one product entry of a feed: an ordered mapping of
// feed-defined field names to one or more text values. It carries no
// semantic meaning until the normalizer has seen it.
//
// Field absence is a distinct, checked case: Get returns ok=false for a
// field the feed never delivered, which is not the same as an empty value.
type RawRecord struct {
	names  []string            // field names in feed order, first occurrence only
	values map[string][]string // lowercase field name -> values in feed order
}

// NewRawRecord returns an empty record ready for Add calls.
func NewRawRecord() RawRecord {
	return RawRecord{values: make(map[string][]string)}
}

// Add appends a value under the given field name. Names are matched
// case-insensitively since legacy feeds are inconsistent about casing.
func (r *RawRecord) Add(name, value string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if _, seen := r.values[key]; !seen {
		r.names = append(r.names, key)
	}
	r.values[key] = append(r.values[key], value)
}

// Get returns the first value of the named field. The second return value
// reports whether the feed delivered the field at all.
func (r RawRecord) Get(name string) (string, bool) {
	vals, ok := r.values[strings.ToLower(name)]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns every value delivered under the named field, in feed order.
func (r RawRecord) Values(name string) []string {
	return r.values[strings.ToLower(name)]
}

// Has reports whether the feed delivered the named field.
func (r RawRecord) Has(name string) bool {
	_, ok := r.values[strings.ToLower(name)]
	return ok
}

// Fields returns the field names in feed order.
func (r RawRecord) Fields() []string {
	return r.names
}

// Len returns the number of distinct fields in the record.
func (r RawRecord) Len() int {
	return len(r.names)
}
