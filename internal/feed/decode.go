package feed

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

// The affiliate network exports ISO-8859-1 (Latin-1). Some feeds declare the
// encoding in the XML prolog, some do not; decodeToUTF8 handles both and
// always hands strict UTF-8 to the XML parser.

// encodingDeclPattern extracts the encoding label from an XML prolog.
var encodingDeclPattern = regexp.MustCompile(`(?i)<\?xml[^>]*\bencoding\s*=\s*["']([A-Za-z0-9._-]+)["']`)

// decodeToUTF8 converts a raw feed body into UTF-8 text.
//
// Resolution order:
//  1. An explicit prolog encoding label wins; the label is resolved through
//     the html/charset registry (handles iso-8859-1, windows-1252 aliases...).
//  2. A body that is already valid UTF-8 passes through. Pure-ASCII bodies
//     land here too, which is also correct for Latin-1.
//  3. Everything else is treated as undeclared ISO-8859-1, the provider's
//     documented legacy default.
func decodeToUTF8(raw []byte) (string, error) {
	if m := encodingDeclPattern.FindSubmatch(raw); m != nil {
		label := strings.ToLower(string(m[1]))
		if label != "utf-8" && label != "utf8" {
			r, err := charset.NewReaderLabel(label, bytes.NewReader(raw))
			if err != nil {
				return "", apperrors.Wrapf(err, apperrors.ParsingFailed, "unsupported feed encoding %q", label)
			}
			decoded, err := io.ReadAll(r)
			if err != nil {
				return "", apperrors.Wrapf(err, apperrors.ParsingFailed, "decoding feed body from %q failed", label)
			}
			return string(decoded), nil
		}
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ParsingFailed, "decoding feed body from ISO-8859-1 failed")
	}
	return string(decoded), nil
}
