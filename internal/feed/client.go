// Package feed implements the feed client: fetching one affiliate feed URL,
// decoding its legacy encoding and parsing it into raw product records.
package feed

import (
	"context"
	"strings"

	"github.com/smykkeguiden/feedsync/internal/feed/fetcher"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// component is the log component name of the feed client.
const component = "feed.client"

// sentinelFeedNotFound is the provider's in-band error payload: a request for
// a feed id that does not exist returns HTTP 200 with this text instead of an
// XML document. Matched case-insensitively.
const sentinelFeedNotFound = "bannerid findes ikke"

// Client fetches and parses one feed URL per call. It is stateless between
// calls and safe for concurrent use.
type Client struct {
	fetcher fetcher.Fetcher
}

// NewClient creates a feed client on top of the given fetcher chain.
func NewClient(f fetcher.Fetcher) *Client {
	if f == nil {
		panic("feed: fetcher is required")
	}
	return &Client{fetcher: f}
}

// Fetch performs one HTTP GET of feedURL and returns its raw records.
//
// Error semantics, per the pipeline's failure taxonomy:
//   - transport failure or non-200 status: Unavailable/ExecutionFailed error
//   - malformed XML or undecodable body: ParsingFailed error
//   - the provider's "feed id does not exist" sentinel: nil error and zero
//     records, meaning an empty feed rather than a failure
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]RawRecord, error) {
	resp, err := fetcher.Get(ctx, c.fetcher, feedURL)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "feed request to %s failed", feedURL)
	}
	defer resp.Body.Close()

	if err := fetcher.CheckResponseStatus(resp); err != nil {
		return nil, err
	}

	// Feeds do not support streaming semantics; the full document is read
	// before any parsing decision.
	raw, err := fetcher.ReadBody(resp.Body)
	if err != nil {
		return nil, err
	}

	text, err := decodeToUTF8(raw)
	if err != nil {
		return nil, err
	}

	if strings.Contains(strings.ToLower(text), sentinelFeedNotFound) {
		applog.WithComponentAndFields(component, applog.Fields{
			"url": feedURL,
		}).Info("provider reports unknown feed id, treating as empty feed")
		return nil, nil
	}

	records, err := parseRecords(text)
	if err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"url":     feedURL,
		"records": len(records),
	}).Debug("feed fetched")

	return records, nil
}
