package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smykkeguiden/feedsync/internal/config"
	syncsvc "github.com/smykkeguiden/feedsync/internal/service/sync"
	"github.com/smykkeguiden/feedsync/pkg/cronx"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// component is the log component name of the scheduler service.
const component = "scheduler.service"

// runSubmitTimeout bounds a scheduled run so a stuck destination cannot pin
// the cron slot forever. It is generous: the run budget normally fires first.
const runSubmitTimeout = 30 * time.Minute

// Runner triggers a full synchronization run. Satisfied by *sync.Service.
type Runner interface {
	TriggerRun(ctx context.Context) (syncsvc.RunReport, error)
}

// Scheduler fires the sync pipeline on the configured cron expression.
type Scheduler struct {
	cfg    config.SchedulerConfig
	runner Runner

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService creates the scheduler service.
func NewService(cfg config.SchedulerConfig, runner Runner) *Scheduler {
	if runner == nil {
		panic("scheduler: runner is required")
	}
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
	}
}

// Start registers the sync trigger with the cron engine and begins waiting
// for the service stop signal. A non-runnable scheduler starts as a no-op so
// installations that only trigger over HTTP need no special casing.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("scheduler service is already running (duplicate start)")
		return nil
	}

	if !s.cfg.Runnable {
		applog.WithComponent(component).Info("scheduler disabled, runs trigger over HTTP only")
		go func() {
			defer serviceStopWG.Done()
			<-serviceStopCtx.Done()
		}()
		return nil
	}

	// Recover keeps one panicking run from killing the cron engine, and
	// SkipIfStillRunning drops a tick while the previous run is in flight
	// instead of queueing behind it.
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if _, err := s.cron.AddFunc(s.cfg.TimeSpec, s.runOnce); err != nil {
		serviceStopWG.Done()
		return err
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": s.cfg.TimeSpec,
	}).Info("scheduler service started")

	go func() {
		defer serviceStopWG.Done()
		<-serviceStopCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the cron engine and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("scheduler service stopped")
}

// runOnce executes a single scheduled run. The run's lifecycle is detached
// from the service stop context: cron.Stop waits for it, so a shutdown mid-run
// lets the current site finish instead of leaving a half-replaced catalog.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runSubmitTimeout)
	defer cancel()

	applog.WithComponent(component).Info("scheduled sync run starting")

	report, err := s.runner.TriggerRun(ctx)
	if err != nil {
		applog.WithComponent(component).Errorf("scheduled sync run failed: %v", err)
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"sites_ok": report.SuccessfulSites,
		"sites":    report.TotalSites,
		"inserted": report.TotalInserted,
	}).Info("scheduled sync run finished")
}
