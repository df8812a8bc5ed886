package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/smykkeguiden/feedsync/internal/config"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	"github.com/smykkeguiden/feedsync/internal/service/contract"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

const serviceComponent = "sync.service"

// SnapshotWriter persists a finished run report for later inspection.
type SnapshotWriter interface {
	SaveRunReport(report RunReport) (string, error)
}

// Service owns run execution on top of the driver. At most one run is in
// flight at a time; concurrent triggers are rejected with a conflict.
type Service struct {
	cfg       *config.AppConfig
	driver    *Driver
	notifier  contract.NotificationSender
	snapshots SnapshotWriter

	runningMu gosync.Mutex
	running   bool

	startMu gosync.Mutex
	started bool
}

// NewService creates the sync service. notifier and snapshots may be nil,
// in which case summaries are only logged.
func NewService(cfg *config.AppConfig, driver *Driver, notifier contract.NotificationSender, snapshots SnapshotWriter) *Service {
	if cfg == nil || driver == nil {
		panic("sync: config and driver are required")
	}
	return &Service{
		cfg:       cfg,
		driver:    driver,
		notifier:  notifier,
		snapshots: snapshots,
	}
}

// Start implements contract.Service. The sync service has no background
// loop of its own; it runs on demand from the scheduler and the API, so
// Start only arms the shutdown acknowledgement.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *gosync.WaitGroup) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.started {
		serviceStopWG.Done()
		applog.WithComponent(serviceComponent).Warn("sync service is already running (duplicate start)")
		return nil
	}
	s.started = true

	go func() {
		defer serviceStopWG.Done()
		<-serviceStopCtx.Done()

		s.startMu.Lock()
		s.started = false
		s.startMu.Unlock()
	}()

	applog.WithComponent(serviceComponent).Info("sync service started")
	return nil
}

// TriggerRun synchronizes all enabled sites. Returns a conflict error when a
// run is already in flight.
func (s *Service) TriggerRun(ctx context.Context) (RunReport, error) {
	if err := s.acquire(); err != nil {
		return RunReport{}, err
	}
	defer s.release()

	report, err := s.driver.RunAll(ctx, s.cfg.EnabledSites())
	if err != nil {
		s.notifyError(fmt.Sprintf("sync run failed: %v", err))
		return report, err
	}

	s.finishRun(report)
	return report, nil
}

// TriggerSite synchronizes a single enabled site by ID.
func (s *Service) TriggerSite(ctx context.Context, siteID string) (RunReport, error) {
	site, ok := s.findEnabledSite(siteID)
	if !ok {
		return RunReport{}, apperrors.Newf(apperrors.NotFound, "no enabled site with id '%s'", siteID)
	}

	if err := s.acquire(); err != nil {
		return RunReport{}, err
	}
	defer s.release()

	report := s.driver.RunSite(ctx, site)
	s.finishRun(report)
	return report, nil
}

func (s *Service) findEnabledSite(siteID string) (config.SiteConfig, bool) {
	for _, site := range s.cfg.EnabledSites() {
		if site.ID == siteID {
			return site, true
		}
	}
	return config.SiteConfig{}, false
}

func (s *Service) acquire() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return apperrors.New(apperrors.Conflict, "a sync run is already in progress")
	}
	s.running = true
	return nil
}

func (s *Service) release() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()
}

// finishRun handles the post-run side effects shared by both triggers.
func (s *Service) finishRun(report RunReport) {
	if s.snapshots != nil {
		if path, err := s.snapshots.SaveRunReport(report); err != nil {
			applog.WithComponent(serviceComponent).Warnf("saving run report snapshot: %v", err)
		} else {
			applog.WithComponent(serviceComponent).Debugf("run report snapshot saved to %s", path)
		}
	}

	summary := summarize(report)
	if report.SuccessfulSites < report.TotalSites || report.Aborted {
		s.notifyError(summary)
		return
	}
	s.notifySummary(summary)
}

func summarize(report RunReport) string {
	status := "completed"
	if report.Aborted {
		status = "aborted (run budget exhausted)"
	}
	return fmt.Sprintf("Sync %s: %d/%d sites ok, %d products fetched, %d inserted, %d errors (%.1fs)",
		status, report.SuccessfulSites, report.TotalSites,
		report.TotalFetched, report.TotalInserted, report.TotalErrors,
		float64(report.DurationMS)/1000)
}

func (s *Service) notifySummary(message string) {
	if s.notifier == nil {
		applog.WithComponent(serviceComponent).Info(message)
		return
	}
	if err := s.notifier.NotifySummary(message); err != nil {
		applog.WithComponent(serviceComponent).Warnf("sending summary notification: %v", err)
	}
}

func (s *Service) notifyError(message string) {
	if s.notifier == nil {
		applog.WithComponent(serviceComponent).Error(message)
		return
	}
	if err := s.notifier.NotifyError(message); err != nil {
		applog.WithComponent(serviceComponent).Warnf("sending error notification: %v", err)
	}
}
