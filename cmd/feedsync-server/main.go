package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/smykkeguiden/feedsync/internal/config"
	"github.com/smykkeguiden/feedsync/internal/feed"
	"github.com/smykkeguiden/feedsync/internal/feed/fetcher"
	"github.com/smykkeguiden/feedsync/internal/service/api"
	"github.com/smykkeguiden/feedsync/internal/service/contract"
	"github.com/smykkeguiden/feedsync/internal/service/notification"
	"github.com/smykkeguiden/feedsync/internal/service/scheduler"
	syncsvc "github.com/smykkeguiden/feedsync/internal/service/sync"
	"github.com/smykkeguiden/feedsync/internal/storage"
	"github.com/smykkeguiden/feedsync/internal/store"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// Build information, injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Run report snapshots land next to the logs.
const (
	snapshotDir      = "reports"
	snapshotRetained = 30
)

const banner = `
  __                _
 / _|  ___   ___  __| | ___  _   _  _ __    ___
| |_  / _ \ / _ \/ _' |/ __|| | | || '_ \  / __|
|  _||  __/|  __/ (_| |\__ \| |_| || | | || (__
|_|   \___| \___|\__,_||___/ \__, ||_| |_| \___|
                             |___/        %s
------------------------------------------------
`

func main() {
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] loading configuration failed: %v\n", err)
		os.Exit(1)
	}

	appLogCloser, err := applog.Setup(applog.Options{
		AppName:          config.AppName,
		Dir:              appConfig.Log.Dir,
		Debug:            appConfig.Debug,
		EnableConsoleLog: appConfig.Log.Console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] initializing the log system failed: %v\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	fmt.Printf(banner, Version)

	applog.WithComponentAndFields("main", log.Fields{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"sites":      len(appConfig.EnabledSites()),
	}).Info("server initialization started")

	// Feed client: rate-limited, identifying HTTP fetcher chain.
	var feedFetcher fetcher.Fetcher = fetcher.NewHTTPFetcherWithTimeout(appConfig.Sync.TransferTimeoutDuration())
	feedFetcher = fetcher.NewUserAgentFetcher(feedFetcher, appConfig.Sync.UserAgent)
	feedFetcher = fetcher.NewRateLimitFetcher(feedFetcher, rate.Limit(appConfig.Sync.RatePerSecond), appConfig.Sync.RatePerSecond)
	feedClient := feed.NewClient(feedFetcher)

	// Sync pipeline.
	orchestrator := syncsvc.NewOrchestrator(feedClient, appConfig.Sync.FeedTimeoutDuration())
	writer := syncsvc.NewWriter(appConfig.Sync.BatchSize)
	driver := syncsvc.NewDriver(orchestrator, writer, store.PostgresOpener{}, appConfig.Sync.RunBudgetDuration())

	// Notifications: Telegram when configured, log-only otherwise.
	var notifier contract.NotificationSender
	var telegramService *notification.Telegram
	if appConfig.Notifier.Telegram != nil {
		telegramService, err = notification.NewTelegram(*appConfig.Notifier.Telegram)
		if err != nil {
			applog.WithComponentAndFields("main", log.Fields{"error": err}).Error("telegram setup failed")
			os.Exit(1)
		}
		notifier = telegramService
	} else {
		notifier = notification.NewNoop()
	}

	snapshots, err := storage.NewSnapshotStore(snapshotDir, snapshotRetained)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{"error": err}).Error("snapshot store setup failed")
		os.Exit(1)
	}

	syncService := syncsvc.NewService(appConfig, driver, notifier, snapshots)
	schedulerService := scheduler.NewService(appConfig.Scheduler, syncService)
	apiService := api.NewService(appConfig, syncService, api.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	})

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	services := []contract.Service{syncService, schedulerService, apiService}
	if telegramService != nil {
		services = append([]contract.Service{telegramService}, services...)
	}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("starting a service failed")

			cancel()
			serviceStopWG.Wait()

			log.Fatal("shutting down after a failed service start")
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("server is up")

	<-termC

	applog.WithComponent("main").Info("shutdown signal received")
	cancel()
	serviceStopWG.Wait()
}
