package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/smykkeguiden/feedsync/internal/config"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	"github.com/smykkeguiden/feedsync/internal/store"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// driverComponent is the log component name of the multi-site driver.
const driverComponent = "sync.driver"

// Driver runs the full pipeline across every enabled site target,
// sequentially and in configuration order.
type Driver struct {
	orchestrator *Orchestrator
	writer       *Writer
	opener       store.Opener
	runBudget    time.Duration
}

// NewDriver wires the orchestrator, writer and store opener into a driver.
// runBudget bounds a complete run; work beyond it is aborted and reported.
func NewDriver(orchestrator *Orchestrator, writer *Writer, opener store.Opener, runBudget time.Duration) *Driver {
	if orchestrator == nil || writer == nil || opener == nil {
		panic("sync: driver dependencies are required")
	}
	return &Driver{
		orchestrator: orchestrator,
		writer:       writer,
		opener:       opener,
		runBudget:    runBudget,
	}
}

// RunAll synchronizes every enabled site and aggregates a run report.
//
// One site's total failure (unreachable destination, panic) is recorded in
// that site's report and never prevents subsequent sites from running. The
// only fatal condition is an empty site list: in this domain, nothing to do
// is an error, not a no-op success.
func (d *Driver) RunAll(ctx context.Context, sites []config.SiteConfig) (RunReport, error) {
	report := RunReport{StartedAt: time.Now()}

	if len(sites) == 0 {
		return report, apperrors.New(apperrors.System, "no enabled site targets configured")
	}

	runCtx := ctx
	if d.runBudget > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.runBudget)
		defer cancel()
	}

	for _, site := range sites {
		if runCtx.Err() != nil {
			report.Aborted = true
			report.addSite(SyncReport{
				SiteID:   site.ID,
				SiteName: site.Name,
				Error:    "skipped: run budget exhausted",
			})
			continue
		}

		report.addSite(d.runSite(runCtx, site))
	}

	// The budget can also expire inside the last site; that run was still
	// cut short even though no site got skipped.
	if runCtx.Err() != nil {
		report.Aborted = true
	}

	report.DurationMS = time.Since(report.StartedAt).Milliseconds()

	applog.WithComponentAndFields(driverComponent, applog.Fields{
		"sites":    report.TotalSites,
		"ok":       report.SuccessfulSites,
		"inserted": report.TotalInserted,
		"errors":   report.TotalErrors,
		"ms":       report.DurationMS,
	}).Info("run finished")

	return report, nil
}

// RunSite synchronizes a single site target, for the single-site trigger.
func (d *Driver) RunSite(ctx context.Context, site config.SiteConfig) RunReport {
	report := RunReport{StartedAt: time.Now()}

	runCtx := ctx
	if d.runBudget > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.runBudget)
		defer cancel()
	}

	report.addSite(d.runSite(runCtx, site))
	if runCtx.Err() != nil {
		report.Aborted = true
	}
	report.DurationMS = time.Since(report.StartedAt).Milliseconds()
	return report
}

// runSite runs orchestrator and writer for one site, converting panics and
// fatal errors into a failed site report.
func (d *Driver) runSite(ctx context.Context, site config.SiteConfig) (report SyncReport) {
	started := time.Now()
	report = SyncReport{SiteID: site.ID, SiteName: site.Name}

	defer func() {
		if r := recover(); r != nil {
			report.Success = false
			report.Error = fmt.Sprintf("site pipeline panicked: %v", r)
			applog.WithComponent(driverComponent).Errorf("site %s: %s", site.ID, report.Error)
		}
		report.DurationMS = time.Since(started).Milliseconds()
	}()

	applog.WithComponentAndFields(driverComponent, applog.Fields{
		"site":  site.ID,
		"feeds": len(site.FeedURLs),
	}).Info("site sync started")

	products, feeds, stats := d.orchestrator.Run(ctx, site.FeedURLs)
	report.Feeds = feeds
	report.Fetched = stats.Fetched
	report.Rejected = stats.Rejected
	report.Normalized = len(products)

	st, err := d.opener.Open(site.Database)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			applog.WithComponent(driverComponent).Warnf("site %s: closing store: %v", site.ID, closeErr)
		}
	}()

	writeResult, err := d.writer.Sync(ctx, st, products)
	report.Inserted = writeResult.Inserted
	report.Deleted = writeResult.Deleted
	report.Errors = writeResult.Errors
	if err != nil {
		// Destination unreachable: fatal to this site only.
		report.Error = err.Error()
		return report
	}

	report.Success = true
	return report
}
