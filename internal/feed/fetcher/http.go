package fetcher

import (
	"net/http"
	"time"
)

// defaultTransferTimeout bounds one complete feed transfer (connect, headers,
// full body). It is independent of the orchestration-level per-feed deadline.
const defaultTransferTimeout = 30 * time.Second

// HTTPFetcher is the base Fetcher backed by a net/http client with a bounded
// total transfer timeout.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an HTTPFetcher with the default 30s transfer timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return NewHTTPFetcherWithTimeout(defaultTransferTimeout)
}

// NewHTTPFetcherWithTimeout creates an HTTPFetcher with a custom transfer
// timeout. A zero timeout means no transfer bound (tests only).
func NewHTTPFetcherWithTimeout(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do executes the request.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

// CloseIdleConnections releases pooled connections, for orderly shutdown.
func (f *HTTPFetcher) CloseIdleConnections() {
	f.client.CloseIdleConnections()
}
