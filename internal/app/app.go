// Package app wires the client components together at the application root.
package app

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/client"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/todo/internal/infrastructure/redis"
	"github.com/fastygo/todo/internal/notify"
	"github.com/fastygo/todo/internal/services/lifecycle"
	"github.com/fastygo/todo/repository"
	boltRepo "github.com/fastygo/todo/repository/bolt"
	redisRepo "github.com/fastygo/todo/repository/redis"
	authUC "github.com/fastygo/todo/usecase/auth"
	taskUC "github.com/fastygo/todo/usecase/task"
)

// Options overrides parts of the wiring, mostly for tests.
type Options struct {
	// Dial replaces the network dialer of the backend client.
	Dial fasthttp.DialFunc
}

// App holds one instance of every client component.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Client    *client.Client
	Tokens    repository.TokenStore
	Session   *authUC.UseCase
	Tasks     *taskUC.Synchronizer
	Notifier  *notify.Center
	Monitor   *monitor.Monitor
	Lifecycle *lifecycle.Manager
}

// New builds the components and restores a persisted session. Close
// releases everything New acquired.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, logger)

	tokens, storeProbe, err := openTokenStore(ctx, cfg, manager)
	if err != nil {
		_ = manager.Shutdown(context.Background())
		return nil, err
	}

	apiClient := client.New(client.Config{
		BaseURL:      cfg.Backend.URL,
		Timeout:      cfg.Backend.RequestTimeout,
		ReadTimeout:  cfg.Backend.ReadTimeout,
		WriteTimeout: cfg.Backend.WriteTimeout,
		MaxConns:     cfg.Backend.MaxConns,
		UserAgent:    cfg.AppName,
		Dial:         opts.Dial,
	}, logger.Named("client"))

	notifier := notify.New(cfg.Notify.TTL, logger.Named("notify"))
	manager.Register("notifications", func(context.Context) error {
		notifier.Close()
		return nil
	})

	session := authUC.New(apiClient, tokens, logger.Named("session"))
	if err := session.Init(ctx); err != nil {
		logger.Warn("session restore failed", zap.Error(err))
	}

	tasks := taskUC.New(apiClient, session, notifier, logger.Named("tasks"))
	manager.Register("tasks", func(context.Context) error {
		tasks.Close()
		return nil
	})

	mon := monitor.New(apiClient, storeProbe, cfg.Monitor.Interval, logger.Named("monitor"))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Client:    apiClient,
		Tokens:    tokens,
		Session:   session,
		Tasks:     tasks,
		Notifier:  notifier,
		Monitor:   mon,
		Lifecycle: manager,
	}, nil
}

// StartMonitor runs the background health probe until Close.
func (a *App) StartMonitor() {
	a.Monitor.Start()
	a.Lifecycle.Register("monitor", func(context.Context) error {
		a.Monitor.Stop()
		return nil
	})
}

// Close runs the shutdown hooks in reverse registration order.
func (a *App) Close(ctx context.Context) error {
	return a.Lifecycle.Shutdown(ctx)
}

func openTokenStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager) (repository.TokenStore, monitor.Pinger, error) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		rdb, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis token store: %w", err)
		}
		// Closing the repository closes the client.
		tokens := redisRepo.NewTokenRepository(rdb, cfg.Redis.TokenKey, cfg.Redis.TokenTTL)
		manager.RegisterCloser("token_store", tokens)
		probe := monitor.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		return tokens, probe, nil
	default:
		repo, err := boltRepo.Open(cfg.Store.Path, "session")
		if err != nil {
			return nil, nil, fmt.Errorf("bolt token store: %w", err)
		}
		manager.RegisterCloser("token_store", repo)
		probe := monitor.PingerFunc(func(context.Context) error {
			return repo.Ping()
		})
		return repo, probe, nil
	}
}
