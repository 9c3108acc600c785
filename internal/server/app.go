// Package server wires configuration, storage, services and the HTTP and
// gRPC endpoints together and runs them until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/tracing"
	"golang.org/x/time/rate"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
	hs "github.com/dmitrijs2005/taskkeeper/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	issuer      *auth.Issuer
	userService *services.UserService
	taskService *services.TaskService
}

// openDB is a seam for tests.
var openDB = dbx.Open

// NewApp validates the configuration, opens and migrates the store and
// builds the services. It does not start listening.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN == repomanager.MemoryDSN {
		logger.Warn(ctx, "Using in-memory store, data will not survive a restart")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = openDB(ctx, repomanager.DriverName, c.DatabaseDSN, dbx.DefaultPoolOptions)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}

		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		issuer:      issuer,
		userService: services.NewUserService(db, rm, issuer),
		taskService: services.NewTaskService(db, rm),
	}, nil
}

// Run serves HTTP and gRPC until ctx is cancelled, a termination signal
// arrives or one of the servers fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	shutdownTracing, err := tracing.Setup(ctx, gs.ServiceName, app.config.TracingEndpoint)
	if err != nil {
		app.logger.Warn(ctx, "tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			app.logger.Warn(context.Background(), "tracing shutdown", "error", err)
		}
	}()

	httpServer := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.taskService, app.issuer,
		hs.LoginLimit{Rate: rate.Limit(app.config.LoginRateLimit), Burst: app.config.LoginRateBurst})

	var pinger gs.Pinger
	if app.db != nil {
		pinger = app.db
	}
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, pinger, app.config.HealthCheckInterval)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", httpServer.Run)
	start("grpc", grpcServer.Run)

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}

	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}
