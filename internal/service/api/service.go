package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smykkeguiden/feedsync/internal/config"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// Service runs the HTTP trigger endpoint as a managed service.
type Service struct {
	appConfig *config.AppConfig
	runner    SyncRunner
	buildInfo BuildInfo

	running   bool
	runningMu sync.Mutex
}

// NewService creates the API service.
func NewService(appConfig *config.AppConfig, runner SyncRunner, buildInfo BuildInfo) *Service {
	if appConfig == nil {
		panic("api: app config is required")
	}
	if runner == nil {
		panic("api: sync runner is required")
	}
	return &Service{
		appConfig: appConfig,
		runner:    runner,
		buildInfo: buildInfo,
	}
}

// Start launches the HTTP server goroutine and returns immediately. The
// server stops when serviceStopCtx is cancelled.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(componentService).Warn("api service is already running (duplicate start)")
		return nil
	}
	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(componentService, applog.Fields{
		"port": s.appConfig.API.ListenPort,
	}).Info("api service started")

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go func() {
		defer close(httpServerDone)
		err := e.Start(fmt.Sprintf(":%d", s.appConfig.API.ListenPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.WithComponentAndFields(componentService, applog.Fields{
				"port":  s.appConfig.API.ListenPort,
				"error": err,
			}).Error("http server exited with an unexpected error")
		}
	}()

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer builds the echo instance with middleware, auth and routes.
func (s *Service) setupServer() *echo.Echo {
	e := newHTTPServer(s.appConfig.Debug)
	h := newHandler(s.runner, s.buildInfo)
	auth := newAuthenticator(s.appConfig.API.AppKeys)
	setupRoutes(e, h, auth)
	return e
}

func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(componentService).Info("api service stopping")
	case <-httpServerDone:
		// The server died on its own (port already bound, listener error).
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(componentService, applog.Fields{
			"error": err,
		}).Error("http server shutdown failed")
	}

	<-httpServerDone
	s.cleanup()

	applog.WithComponent(componentService).Info("api service stopped")
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()
}
