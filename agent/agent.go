package agent

import (
	"context"
	"sync"

	"github.com/mohitkumar/screenflow/analytics"
	"github.com/mohitkumar/screenflow/assignment"
	"github.com/mohitkumar/screenflow/auth"
	"github.com/mohitkumar/screenflow/config"
	"github.com/mohitkumar/screenflow/container"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/render"
	"github.com/mohitkumar/screenflow/rest"
	"go.uber.org/zap"
)

type Agent struct {
	Config            config.Config
	diContainer       *container.DIContiner
	recorder          *analytics.Recorder
	authenticator     *auth.Authenticator
	assignmentService *assignment.Service
	httpServer        *rest.Server
	shutdown          bool
	shutdowns         chan struct{}
	shutdownLock      sync.Mutex
	wg                sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupStorage,
		a.setupAnalytics,
		a.setupAssignmentService,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	a.diContainer = container.NewDiContainer()
	return a.diContainer.Init(context.Background(), a.Config)
}

func (a *Agent) setupAnalytics() error {
	collector, err := analytics.NewDataCollector(a.Config.AnalyticsConfig)
	if err != nil {
		return err
	}
	a.recorder = analytics.NewRecorder(collector, a.Config.AnalyticsConfig.BufferSize, &a.wg)
	a.recorder.Start()
	return nil
}

func (a *Agent) setupAssignmentService() error {
	storage := a.diContainer.GetStorage()
	a.authenticator = auth.NewAuthenticator(storage, a.Config.KeyCacheTTL)
	a.assignmentService = assignment.NewService(storage, storage, assignment.NewWeightedPicker(), a.recorder)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.authenticator, a.assignmentService, a.diContainer.GetStorage(), render.NewRenderer())
	return err
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server failed", zap.Error(err))
			_ = a.Shutdown()
		}
	}()
	return nil
}

// Done is closed once Shutdown has started.
func (a *Agent) Done() <-chan struct{} {
	return a.shutdowns
}

func (a *Agent) Shutdown() error {
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	logger.Info("shutting down server")
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		a.recorder.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return a.diContainer.Close()
}
