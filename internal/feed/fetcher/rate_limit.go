package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher paces outgoing requests through a token-bucket limiter.
// Affiliate networks throttle partners that hammer the feed endpoint; one
// limiter is shared across all feeds of a run.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

var _ Fetcher = (*RateLimitFetcher)(nil)

// NewRateLimitFetcher wraps delegate so that requests proceed at most at the
// given rate with the given burst.
func NewRateLimitFetcher(delegate Fetcher, r rate.Limit, burst int) *RateLimitFetcher {
	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(r, burst),
	}
}

// Do waits for limiter clearance, honoring the request context, then
// delegates. A cancelled context returns immediately with the context error.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return f.delegate.Do(req)
}
