// Package app wires configuration into the concrete store, cache, event
// publisher and service shared by the server, the Lambda entrypoint and the
// scripts.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-app/internal/cache"
	"todo-app/internal/config"
	"todo-app/internal/database"
	"todo-app/internal/queue"
	"todo-app/internal/repository"
	"todo-app/internal/service"
	"todo-app/internal/worker"
	"todo-app/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// App holds the constructed dependencies.
type App struct {
	Config  *config.Config
	Repo    repository.Repository
	Service *service.Service

	db        *sql.DB
	redis     *redis.Client
	cache     *cache.Repository
	publisher *queue.Publisher
}

// Build constructs every dependency cfg enables. Optional components (Redis,
// Kafka) are skipped when unconfigured and fail the build when configured but
// unreachable.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled() {
		client, err := cache.NewClient(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		a.cache = cache.New(repo, client, cfg.CacheTTL)
		repo = a.cache
	}
	a.Repo = repo

	var opts []service.Option
	if cfg.EventsEnabled() {
		a.publisher = queue.NewPublisher(queue.NewWriter(cfg))
		opts = append(opts, service.WithPublisher(a.publisher))
		logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}
	a.Service = service.New(repo, opts...)
	return a, nil
}

func (a *App) openRepository(ctx context.Context) (repository.Repository, error) {
	cfg := a.Config
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		client, err := database.NewDynamoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewDynamo(client, cfg.TableName), nil
	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateOrCreateSchema(ctx, db, cfg.TableName); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		return repository.NewPostgres(db, cfg.TableName), nil
	case config.BackendMemory:
		logger.Warn(ctx, "Using in-memory store; data is lost on exit")
		return repository.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// Worker returns the cache invalidation consumer, or nil when either Kafka or
// Redis is not configured.
func (a *App) Worker() *worker.Worker {
	if a.publisher == nil || a.cache == nil {
		return nil
	}
	return worker.New(worker.NewReader(a.Config), a.cache)
}

// Close flushes the publisher and releases connections.
func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
