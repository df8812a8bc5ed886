package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smykkeguiden/feedsync/internal/feed/fetcher"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

// latin1 encodes a UTF-8 literal as ISO-8859-1 bytes, as the provider sends them.
func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out := make([]byte, 0, len(s))
	for _, r := range s {
		require.Less(t, int(r), 256, "test fixture must be Latin-1 representable")
		out = append(out, byte(r))
	}
	return out
}

func newTestClient() *Client {
	return NewClient(fetcher.NewHTTPFetcher())
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("parses an undeclared Latin-1 feed", func(t *testing.T) {
		t.Parallel()

		body := latin1(t, `<produkter>
			<produkt>
				<produktid>P-1001</produktid>
				<produktnavn>Sølv ørestikker</produktnavn>
				<nypris>299,00</nypris>
				<forhandler>Smykkebutikken</forhandler>
			</produkt>
			<produkt>
				<produktid>P-1002</produktid>
				<produktnavn>Guldring</produktnavn>
				<nypris>1.499,00</nypris>
			</produkt>
		</produkter>`)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml")
			_, _ = w.Write(body)
		}))
		defer srv.Close()

		records, err := newTestClient().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Len(t, records, 2)

		name, ok := records[0].Get(FieldTitle)
		require.True(t, ok)
		assert.Equal(t, "Sølv ørestikker", name, "Latin-1 bytes must decode to proper UTF-8")

		id, ok := records[1].Get(FieldProductID)
		require.True(t, ok)
		assert.Equal(t, "P-1002", id)
	})

	t.Run("parses a feed with a declared prolog encoding", func(t *testing.T) {
		t.Parallel()

		body := append(
			[]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>`),
			latin1(t, `<produkter><produkt><produktid>1</produktid><produktnavn>Armbånd</produktnavn></produkt></produkter>`)...,
		)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(body)
		}))
		defer srv.Close()

		records, err := newTestClient().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Len(t, records, 1)

		name, _ := records[0].Get(FieldTitle)
		assert.Equal(t, "Armbånd", name)
	})

	t.Run("sentinel payload is an empty feed, not an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The provider answers 200 with a plain-text error payload.
			_, _ = w.Write([]byte("Fejl: bannerid findes ikke"))
		}))
		defer srv.Close()

		records, err := newTestClient().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed XML is a parse failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<produkter><produkt><produktid>1`))
		}))
		defer srv.Close()

		_, err := newTestClient().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("unexpected root element is a parse failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<rss><item/></rss>`))
		}))
		defer srv.Close()

		_, err := newTestClient().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("server error status is not a parse failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("unreachable host is a transport failure", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient().Fetch(ctx, "http://192.0.2.1/feed")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})
}

func TestRawRecord_Accessors(t *testing.T) {
	t.Parallel()

	rec := NewRawRecord()
	rec.Add("Produktnavn", "Perlekæde")
	rec.Add("kategorinavn", "Halskæder")
	rec.Add("kategorinavn", "Smykker")

	v, ok := rec.Get(FieldTitle)
	assert.True(t, ok)
	assert.Equal(t, "Perlekæde", v)

	assert.Equal(t, []string{"Halskæder", "Smykker"}, rec.Values(FieldCategory))
	assert.Equal(t, []string{"produktnavn", "kategorinavn"}, rec.Fields())

	// Absence is distinct from emptiness.
	_, ok = rec.Get(FieldEAN)
	assert.False(t, ok)
	assert.False(t, rec.Has(FieldEAN))

	rec.Add(FieldEAN, "")
	v, ok = rec.Get(FieldEAN)
	assert.True(t, ok, "a delivered empty field is present")
	assert.Empty(t, v)
}
