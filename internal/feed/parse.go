package feed

import (
	"encoding/xml"
	"io"
	"strings"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

// XML element names of the provider's feed format.
const (
	rootElement    = "produkter"
	productElement = "produkt"
)

// parseRecords parses UTF-8 feed text into the sequence of raw records.
//
// The document must carry repeated <produkt> elements under a <produkter>
// root; each child element of a <produkt> becomes one raw field. Malformed
// XML is a ParsingFailed error; the caller treats it as a per-feed failure.
func parseRecords(text string) ([]RawRecord, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	// The body was already normalized to UTF-8; re-decoding a declared
	// legacy label here would corrupt it, so the reader passes through.
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc struct {
		XMLName  xml.Name `xml:"produkter"`
		Products []struct {
			Fields []struct {
				XMLName xml.Name
				Value   string `xml:",chardata"`
			} `xml:",any"`
		} `xml:"produkt"`
	}

	if err := decoder.Decode(&doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "feed XML is malformed")
	}
	if doc.XMLName.Local != rootElement {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "unexpected feed root element <%s>", doc.XMLName.Local)
	}

	records := make([]RawRecord, 0, len(doc.Products))
	for _, p := range doc.Products {
		rec := NewRawRecord()
		for _, f := range p.Fields {
			rec.Add(f.XMLName.Local, strings.TrimSpace(f.Value))
		}
		if rec.Len() > 0 {
			records = append(records, rec)
		}
	}

	return records, nil
}
