// Package fetcher provides the HTTP client used for feed transfers.
//
// The core abstraction is the Fetcher interface; concerns such as User-Agent
// injection and request pacing are layered on top of the base HTTP client as
// decorators, so callers compose exactly the chain they need.
package fetcher

import (
	"context"
	"net/http"
)

// Fetcher performs HTTP requests.
//
// Implementation notes:
//   - The caller must close the Body of a returned response.
//   - Implementations must abort the request when the request context is
//     cancelled and return the context error.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get sends an HTTP GET request to the given URL through f.
//
// On transport failure any partially-received response body is drained and
// closed so the underlying connection can be reused.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}
