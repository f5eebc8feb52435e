package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"todo-app/internal/config"
	"todo-app/internal/models"
	"todo-app/internal/repository"
	"todo-app/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// NewClient parses cfg.RedisURL and pings the server.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return client, nil
}

// ListKey is the cache key holding the todo list of one user.
func ListKey(userID string) string {
	return "todos:user:" + userID
}

// GenerationKey counts the writes of one user. Every invalidation increments it.
func GenerationKey(userID string) string {
	return ListKey(userID) + ":gen"
}

// fillScript stores the list only if the generation is unchanged since the
// store read. ARGV: expected generation, payload, TTL in milliseconds.
var fillScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[2]) or ""
if cur ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// Repository caches ListByUser results in Redis and drops a user's entry on
// every write of that user. Cache failures degrade to the wrapped store.
type Repository struct {
	next   repository.Repository
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

var _ repository.Repository = (*Repository)(nil)

// New wraps next with a list cache.
func New(next repository.Repository, client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{next: next, client: client, ttl: ttl}
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	key := ListKey(userID)
	if todos, ok := r.get(ctx, key); ok {
		return todos, nil
	}
	// The generation is read before the store so a write that lands during
	// the fetch makes the fill a no-op. Callers that read a newer generation
	// never join a flight started before their write.
	gen, genOK := r.generation(ctx, userID)
	v, err, _ := r.group.Do(key+"@"+gen, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		todos, err := r.next.ListByUser(fetchCtx, userID)
		if err != nil {
			return nil, err
		}
		if genOK {
			r.fill(fetchCtx, userID, gen, todos)
		}
		return todos, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Todo), nil
}

func (r *Repository) Put(ctx context.Context, todo models.Todo) error {
	if err := r.next.Put(ctx, todo); err != nil {
		return err
	}
	r.Invalidate(ctx, todo.UserID)
	return nil
}

func (r *Repository) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (models.Todo, error) {
	todo, err := r.next.Update(ctx, userID, todoID, patch)
	if err != nil {
		return models.Todo{}, err
	}
	r.Invalidate(ctx, userID)
	return todo, nil
}

func (r *Repository) Delete(ctx context.Context, userID, todoID string) error {
	if err := r.next.Delete(ctx, userID, todoID); err != nil {
		return err
	}
	r.Invalidate(ctx, userID)
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Invalidate deletes the user's list key so the next read goes to the store.
func (r *Repository) Invalidate(ctx context.Context, userID string) {
	Invalidate(ctx, r.client, userID)
}

// Invalidate bumps the user's generation and deletes the list key. A fill
// that read the previous generation is then discarded.
func Invalidate(ctx context.Context, client *redis.Client, userID string) {
	_, err := client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, GenerationKey(userID))
		p.Del(ctx, ListKey(userID))
		return nil
	})
	if err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err, "user_id", userID)
	}
}

func (r *Repository) get(ctx context.Context, key string) ([]models.Todo, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		return nil, false
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, true
}

// generation returns the user's current write generation ("" before the
// first write). ok is false when Redis is unreachable; the fill is skipped.
func (r *Repository) generation(ctx context.Context, userID string) (string, bool) {
	gen, err := r.client.Get(ctx, GenerationKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		logger.Debug(ctx, "Redis get generation failed", "error", err)
		return "", false
	}
	return gen, true
}

func (r *Repository) fill(ctx context.Context, userID, gen string, todos []models.Todo) {
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	keys := []string{ListKey(userID), GenerationKey(userID)}
	stored, err := fillScript.Run(ctx, r.client, keys, gen, b, r.ttl.Milliseconds()).Int()
	if err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
		return
	}
	if stored == 0 {
		logger.Debug(ctx, "Skipped stale todo list fill", "user_id", userID)
	}
}
