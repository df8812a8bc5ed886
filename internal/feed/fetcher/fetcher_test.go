package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

func TestGet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := Get(context.Background(), NewHTTPFetcher(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGet_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, NewHTTPFetcher(), srv.URL)
	require.Error(t, err)
}

func TestUserAgentFetcher(t *testing.T) {
	t.Parallel()

	t.Run("injects service user agent when missing", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		f := NewUserAgentFetcher(NewHTTPFetcher(), "")
		resp, err := Get(context.Background(), f, srv.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, DefaultUserAgent, gotUA)
		assert.True(t, strings.HasPrefix(gotUA, "feedsync-server/"))
	})

	t.Run("keeps an explicit user agent", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		f := NewUserAgentFetcher(NewHTTPFetcher(), "custom/2.0")
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "caller/1.0")

		resp, err := f.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "caller/1.0", gotUA)
	})
}

func TestRateLimitFetcher_PacesRequests(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// 10 req/s, burst 1: three requests need at least ~200ms.
	f := NewRateLimitFetcher(NewHTTPFetcher(), rate.Limit(10), 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := Get(context.Background(), f, srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}

func TestRateLimitFetcher_ContextCancelled(t *testing.T) {
	t.Parallel()

	f := NewRateLimitFetcher(NewHTTPFetcher(), rate.Limit(0.001), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, f, "http://192.0.2.1/feed")
	require.Error(t, err)
}

func TestCheckResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     int
		wantType apperrors.ErrorType
		wantOK   bool
	}{
		{code: http.StatusOK, wantOK: true},
		{code: http.StatusNotFound, wantType: apperrors.ExecutionFailed},
		{code: http.StatusForbidden, wantType: apperrors.ExecutionFailed},
		{code: http.StatusTooManyRequests, wantType: apperrors.Unavailable},
		{code: http.StatusBadGateway, wantType: apperrors.Unavailable},
		{code: http.StatusServiceUnavailable, wantType: apperrors.Unavailable},
	}

	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.code, Status: http.StatusText(tt.code)}
		err := CheckResponseStatus(resp)
		if tt.wantOK {
			assert.NoError(t, err)
			continue
		}
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, tt.wantType), "status %d should map to %s", tt.code, tt.wantType)
	}
}

func TestReadBody_Limit(t *testing.T) {
	t.Parallel()

	data, err := ReadBody(strings.NewReader("small body"))
	require.NoError(t, err)
	assert.Equal(t, []byte("small body"), data)
}
