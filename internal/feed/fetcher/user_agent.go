package fetcher

import "net/http"

// DefaultUserAgent identifies this service to feed providers. Affiliate
// networks ask partners to fetch with an identifying agent rather than a
// browser string.
const DefaultUserAgent = "feedsync-server/1.0 (+https://github.com/smykkeguiden/feedsync)"

// UserAgentFetcher injects the service User-Agent into requests that do not
// carry one. Requests with an explicit User-Agent pass through unchanged.
type UserAgentFetcher struct {
	delegate  Fetcher
	userAgent string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

// NewUserAgentFetcher wraps delegate with User-Agent injection. An empty
// userAgent falls back to DefaultUserAgent.
func NewUserAgentFetcher(delegate Fetcher, userAgent string) *UserAgentFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &UserAgentFetcher{
		delegate:  delegate,
		userAgent: userAgent,
	}
}

// Do executes the request, injecting the User-Agent when missing.
// The original request is cloned before modification.
func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return f.delegate.Do(req)
	}

	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", f.userAgent)

	return f.delegate.Do(clonedReq)
}
