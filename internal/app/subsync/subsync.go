// Package subsync собирает HTTP-приложение SubSync: хранилище, кеш, блокировки,
// публикацию событий, сервисы и маршруты.
package subsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subsync/internal/cache"
	"github.com/magabrotheeeer/subsync/internal/config"
	"github.com/magabrotheeeer/subsync/internal/lib/keymutex"
	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/migrations"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/rabbitmq"
	companyservice "github.com/magabrotheeeer/subsync/internal/services/company"
	subscriptionservice "github.com/magabrotheeeer/subsync/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subsync/internal/services/user"
	"github.com/magabrotheeeer/subsync/internal/storage/mongo"
	"github.com/magabrotheeeer/subsync/internal/storage/postgresql"
)

const shutdownTimeout = 15 * time.Second

// Repository объединяет методы хранилища, нужные приложению.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	CreateCompany(ctx context.Context, company models.Company) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Cache объединяет методы кеша, нужные сервисам.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
	GetVersioned(ctx context.Context, key string, result any) (bool, error)
	SetVersioned(ctx context.Context, key string, version int64, value any, expiration time.Duration) (bool, error)
}

type App struct {
	server  *http.Server
	logger  *slog.Logger
	repo    Repository
	closers []func() error
}

// New подключает инфраструктуру согласно cfg и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.subsync.New"
	app := &App{logger: logger}

	repo, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.repo = repo

	var (
		appCache Cache = cache.Nop{}
		redis    *cache.Cache
	)
	if cfg.Redis.Enabled {
		redis, err = cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, redis.Close)
		appCache = redis
		logger.Info("redis cache enabled", slog.String("address", cfg.Redis.Address))
	}

	var locker subscriptionservice.Locker
	switch cfg.Lifecycle.Locking {
	case config.LockingLocal:
		locker = keymutex.New(cfg.Lifecycle.LockTimeout)
	case config.LockingRedis:
		locker = cache.NewLocker(redis.Db, cfg.Lifecycle.LockTTL, cfg.Lifecycle.LockTimeout)
	default:
		locker = subscriptionservice.NoLock{}
	}
	logger.Info("subscription locking mode", slog.String("mode", cfg.Lifecycle.Locking))

	var publisher subscriptionservice.Publisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, conn.Close)

		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p := rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange)
		app.closers = append(app.closers, p.Close)
		publisher = p
		logger.Info("rabbitmq publisher enabled", slog.String("exchange", cfg.RabbitMQ.Exchange))
	}

	services := Services{
		Users:         userservice.NewUserService(repo, logger),
		Subscriptions: subscriptionservice.NewSubscriptionService(repo, appCache, locker, publisher, logger),
		Companies:     companyservice.NewCompanyService(repo, appCache, logger),
		Health:        repo,
	}

	router := chi.NewRouter()
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	RegisterRoutes(router, logger, limiter, services)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg config.Storage, logger *slog.Logger) (Repository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgresql.New(connectCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		logger.Info("postgres storage connected")
		return db, nil
	default:
		db, err := mongo.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info("mongo storage connected", slog.String("database", cfg.MongoDatabase))
		return db, nil
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в обратном порядке подключения.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
	if a.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.repo.Close(ctx); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
		a.repo = nil
	}
}
