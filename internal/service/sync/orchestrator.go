package sync

import (
	"context"
	"time"

	"github.com/smykkeguiden/feedsync/internal/catalog"
	"github.com/smykkeguiden/feedsync/internal/feed"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// orchestratorComponent is the log component name of the feed orchestrator.
const orchestratorComponent = "sync.orchestrator"

// FeedClient fetches one feed URL into raw records. Satisfied by
// *feed.Client; tests substitute fakes.
type FeedClient interface {
	Fetch(ctx context.Context, feedURL string) ([]feed.RawRecord, error)
}

// Orchestrator drives the feed client and normalizer across one site's feed
// list with per-feed timeout isolation and error accounting.
type Orchestrator struct {
	client      FeedClient
	feedTimeout time.Duration
}

// NewOrchestrator creates an orchestrator with the given per-feed deadline.
// The deadline bounds the whole fetch including a hung connection, on top of
// the client's own transfer timeout.
func NewOrchestrator(client FeedClient, feedTimeout time.Duration) *Orchestrator {
	if client == nil {
		panic("sync: feed client is required")
	}
	return &Orchestrator{
		client:      client,
		feedTimeout: feedTimeout,
	}
}

// fetchOutcome carries one feed's result across the timeout race.
type fetchOutcome struct {
	records []feed.RawRecord
	err     error
}

// OrchestratorStats counts raw records and rejections across one site run.
type OrchestratorStats struct {
	Fetched  int // raw records delivered by all successful feeds
	Rejected int // records dropped by the normalizer
}

// Run processes the site's feeds in configured order and returns every
// successfully normalized product plus one FeedResult per feed.
//
// No feed failure is fatal: a timed-out, unreachable or malformed feed
// contributes zero products and the run continues. Individual record
// rejections are warn-logged and swallowed. Products are not deduplicated
// across feeds; the destination key constraint is the dedup point.
func (o *Orchestrator) Run(ctx context.Context, feedURLs []string) ([]catalog.Product, []FeedResult, OrchestratorStats) {
	var products []catalog.Product
	var stats OrchestratorStats
	results := make([]FeedResult, 0, len(feedURLs))

	for _, feedURL := range feedURLs {
		if ctx.Err() != nil {
			// Run budget exhausted: report the remaining feeds as not attempted.
			results = append(results, FeedResult{
				URL:   feedURL,
				Error: "skipped: run budget exhausted",
			})
			continue
		}

		records, err := o.fetchWithTimeout(ctx, feedURL)
		if err != nil {
			applog.WithComponentAndFields(orchestratorComponent, applog.Fields{
				"url": feedURL,
			}).Warnf("feed failed, continuing with remaining feeds: %v", err)
			results = append(results, FeedResult{URL: feedURL, Error: err.Error()})
			continue
		}

		stats.Fetched += len(records)

		count := 0
		for _, rec := range records {
			product, err := catalog.Normalize(rec, feedURL)
			if err != nil {
				applog.WithComponentAndFields(orchestratorComponent, applog.Fields{
					"url": feedURL,
				}).Warnf("record dropped: %v", err)
				stats.Rejected++
				continue
			}
			products = append(products, product)
			count++
		}

		results = append(results, FeedResult{
			URL:          feedURL,
			Success:      true,
			ProductCount: count,
		})
	}

	return products, results, stats
}

// fetchWithTimeout races the feed client against the per-feed deadline.
//
// The fetch runs in its own goroutine: even if the client ignores context
// cancellation after accepting a connection, the orchestrator moves on once
// the deadline passes. The abandoned goroutine ends when its HTTP transfer
// timeout fires.
func (o *Orchestrator) fetchWithTimeout(ctx context.Context, feedURL string) ([]feed.RawRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.feedTimeout)
	defer cancel()

	outcomeC := make(chan fetchOutcome, 1)
	go func() {
		records, err := o.client.Fetch(fetchCtx, feedURL)
		outcomeC <- fetchOutcome{records: records, err: err}
	}()

	select {
	case outcome := <-outcomeC:
		return outcome.records, outcome.err
	case <-fetchCtx.Done():
		return nil, apperrors.Wrapf(fetchCtx.Err(), apperrors.Timeout, "feed %s exceeded the %s deadline", feedURL, o.feedTimeout)
	}
}
