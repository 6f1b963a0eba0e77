// Package server runs the interview service: it builds the shared
// components, serves sessions over gRPC, evicts idle sessions and persists
// whatever is still open on shutdown.
package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/talentscout/internal/app"
	"github.com/dmitrijs2005/talentscout/internal/config"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/session"

	gs "github.com/dmitrijs2005/talentscout/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	components *app.Components
	sessions   *session.Manager
}

// NewApp builds the components described by c. Logs go to w, or stdout
// when w is nil.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.ValidateServer(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}

	logger, err := app.NewLogger(c, w)
	if err != nil {
		return nil, err
	}

	comps, err := app.Build(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	sm := session.NewManager(comps.NewEngine, c.SessionIdleTimeout, logger)

	return &App{config: c, logger: logger, components: comps, sessions: sm}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.sessions, app.config.SessionSecret, app.config.SessionTokenTTL)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done, a termination signal arrives or the gRPC
// server fails. Open sessions are closed and persisted before it returns.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sessions.RunSweeper(ctx, app.config.SweepInterval)
	}()

	wg.Wait()

	// ctx is done here; persistence on shutdown needs a live context.
	app.sessions.CloseAll(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")

	return app.components.Close()
}

// Sessions exposes the live session registry.
func (app *App) Sessions() *session.Manager {
	return app.sessions
}
